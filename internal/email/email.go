package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/inbucket/html2text"
)

// Client represents an email client
type Client struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Attachment is a file attached to a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message represents an email message
type Message struct {
	To          []string
	Cc          []string
	Subject     string
	HTML        string
	Text        string // optional, will be auto-generated from HTML if empty
	Attachments []Attachment
}

// NewClient creates a new email client
func NewClient(host, port, username, password, from string) *Client {
	return &Client{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		From:     from,
	}
}

// Send sends an email message
func (c *Client) Send(msg *Message) error {
	if msg.Text == "" {
		text, err := htmlToText(msg.HTML)
		if err != nil {
			return fmt.Errorf("failed to convert HTML to text: %w", err)
		} else {
			msg.Text = text
		}
	}

	body, err := c.buildMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	auth := smtp.PlainAuth("", c.Username, c.Password, c.Host)
	addr := c.Host + ":" + c.Port

	recipients := append([]string{}, msg.To...)
	recipients = append(recipients, msg.Cc...)

	return smtp.SendMail(addr, auth, c.From, recipients, body)
}

// buildMessage creates a multipart email message. When attachments are
// present the outer type is multipart/mixed with a nested
// multipart/alternative body part.
func (c *Client) buildMessage(msg *Message) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	outerType := "multipart/alternative"
	if len(msg.Attachments) > 0 {
		outerType = "multipart/mixed"
	}

	// Headers
	buf.WriteString(fmt.Sprintf("From: %s\r\n", c.From))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ", ")))
	if len(msg.Cc) > 0 {
		buf.WriteString(fmt.Sprintf("Cc: %s\r\n", strings.Join(msg.Cc, ", ")))
	}
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	buf.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString(fmt.Sprintf("Content-Type: %s; boundary=%s\r\n", outerType, writer.Boundary()))
	buf.WriteString("\r\n")

	if len(msg.Attachments) > 0 {
		// Nested alternative part carrying text + html
		var alt bytes.Buffer
		altWriter := multipart.NewWriter(&alt)
		if err := writeAlternative(altWriter, msg); err != nil {
			return nil, err
		}
		altWriter.Close()

		altHeader := make(textproto.MIMEHeader)
		altHeader.Set("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%s", altWriter.Boundary()))
		altPart, err := writer.CreatePart(altHeader)
		if err != nil {
			return nil, err
		}
		if _, err := altPart.Write(alt.Bytes()); err != nil {
			return nil, err
		}

		for _, att := range msg.Attachments {
			if err := writeAttachment(writer, att); err != nil {
				return nil, err
			}
		}
	} else {
		if err := writeAlternative(writer, msg); err != nil {
			return nil, err
		}
	}

	writer.Close()

	return buf.Bytes(), nil
}

func writeAlternative(writer *multipart.Writer, msg *Message) error {
	// Text part
	textHeader := make(textproto.MIMEHeader)
	textHeader.Set("Content-Type", "text/plain; charset=utf-8")
	textHeader.Set("Content-Transfer-Encoding", "quoted-printable")

	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return err
	}

	qpWriter := quotedprintable.NewWriter(textPart)
	if _, err := qpWriter.Write([]byte(msg.Text)); err != nil {
		return err
	}
	qpWriter.Close()

	// HTML part
	htmlHeader := make(textproto.MIMEHeader)
	htmlHeader.Set("Content-Type", "text/html; charset=utf-8")
	htmlHeader.Set("Content-Transfer-Encoding", "quoted-printable")

	htmlPart, err := writer.CreatePart(htmlHeader)
	if err != nil {
		return err
	}

	qpWriter = quotedprintable.NewWriter(htmlPart)
	if _, err := qpWriter.Write([]byte(msg.HTML)); err != nil {
		return err
	}
	qpWriter.Close()

	return nil
}

func writeAttachment(writer *multipart.Writer, att Attachment) error {
	contentType := att.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Type", fmt.Sprintf("%s; name=%q", contentType, att.Filename))
	header.Set("Content-Transfer-Encoding", "base64")
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(att.Data)
	// RFC 2045: base64 lines at most 76 characters
	for len(encoded) > 0 {
		n := 76
		if len(encoded) < n {
			n = len(encoded)
		}
		if _, err := part.Write([]byte(encoded[:n])); err != nil {
			return err
		}
		if _, err := part.Write([]byte("\r\n")); err != nil {
			return err
		}
		encoded = encoded[n:]
	}
	return nil
}

// htmlToText converts HTML to plain text
func htmlToText(htmlContent string) (string, error) {
	text, err := html2text.FromString(htmlContent, html2text.Options{
		PrettyTables: true,
		OmitLinks:    false,
	})
	if err != nil {
		slog.Error("failed to convert HTML to text", "error", err)
		return "", err
	}
	return text, nil
}
