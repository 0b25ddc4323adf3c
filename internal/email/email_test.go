package email

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildMessage_WithoutAttachments(t *testing.T) {
	client := NewClient("localhost", "25", "", "", "noreply@example.com")

	msg := &Message{
		To:      []string{"asha@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hi there</p>",
		Text:    "Hi there",
	}
	body, err := client.buildMessage(msg)
	if err != nil {
		t.Fatalf("buildMessage failed: %v", err)
	}

	s := string(body)
	if !strings.Contains(s, "Content-Type: multipart/alternative;") {
		t.Error("outer type should be multipart/alternative")
	}
	if strings.Contains(s, "multipart/mixed") {
		t.Error("no mixed part without attachments")
	}
	if !strings.Contains(s, "From: noreply@example.com") {
		t.Error("missing From header")
	}
	if !strings.Contains(s, "To: asha@example.com") {
		t.Error("missing To header")
	}
	if !strings.Contains(s, "text/plain; charset=utf-8") || !strings.Contains(s, "text/html; charset=utf-8") {
		t.Error("missing alternative parts")
	}
}

func TestBuildMessage_WithAttachment(t *testing.T) {
	client := NewClient("localhost", "25", "", "", "noreply@example.com")

	data := []byte("spreadsheet-bytes")
	msg := &Message{
		To:      []string{"hr@example.com"},
		Cc:      []string{"asha@example.com"},
		Subject: "Timesheet",
		HTML:    "<p>Attached</p>",
		Text:    "Attached",
		Attachments: []Attachment{{
			Filename:    "timesheet.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}},
	}
	body, err := client.buildMessage(msg)
	if err != nil {
		t.Fatalf("buildMessage failed: %v", err)
	}

	s := string(body)
	if !strings.Contains(s, "Content-Type: multipart/mixed;") {
		t.Error("outer type should be multipart/mixed")
	}
	if !strings.Contains(s, "multipart/alternative") {
		t.Error("missing nested alternative part")
	}
	if !strings.Contains(s, "Cc: asha@example.com") {
		t.Error("missing Cc header")
	}
	if !strings.Contains(s, `attachment; filename="timesheet.xlsx"`) {
		t.Error("missing attachment disposition")
	}
	if !strings.Contains(s, base64.StdEncoding.EncodeToString(data)) {
		t.Error("attachment data should be base64 encoded in the body")
	}
}

func TestBuildMessage_Base64LineLength(t *testing.T) {
	client := NewClient("localhost", "25", "", "", "noreply@example.com")

	// Large enough to force multiple encoded lines.
	data := make([]byte, 600)
	for i := range data {
		data[i] = byte(i % 251)
	}
	msg := &Message{
		To:          []string{"hr@example.com"},
		Subject:     "Report",
		HTML:        "<p>big</p>",
		Text:        "big",
		Attachments: []Attachment{{Filename: "big.bin", Data: data}},
	}
	body, err := client.buildMessage(msg)
	if err != nil {
		t.Fatalf("buildMessage failed: %v", err)
	}

	inAttachment := false
	for _, line := range strings.Split(string(body), "\r\n") {
		if strings.Contains(line, "Content-Transfer-Encoding: base64") {
			inAttachment = true
			continue
		}
		if inAttachment && len(line) > 76 {
			t.Fatalf("base64 line exceeds 76 characters: %d", len(line))
		}
	}
	if !inAttachment {
		t.Fatal("attachment part not found")
	}
}

func TestBuildMessage_DefaultAttachmentContentType(t *testing.T) {
	client := NewClient("localhost", "25", "", "", "noreply@example.com")

	msg := &Message{
		To:          []string{"hr@example.com"},
		Subject:     "File",
		HTML:        "<p>f</p>",
		Text:        "f",
		Attachments: []Attachment{{Filename: "raw.bin", Data: []byte{1, 2, 3}}},
	}
	body, err := client.buildMessage(msg)
	if err != nil {
		t.Fatalf("buildMessage failed: %v", err)
	}
	if !strings.Contains(string(body), "application/octet-stream") {
		t.Error("missing default content type")
	}
}

func TestHTMLToText(t *testing.T) {
	text, err := htmlToText("<html><body><p>Hello <strong>world</strong></p></body></html>")
	if err != nil {
		t.Fatalf("htmlToText failed: %v", err)
	}
	if !strings.Contains(text, "Hello") || !strings.Contains(text, "world") {
		t.Errorf("unexpected text: %q", text)
	}
	if strings.Contains(text, "<p>") {
		t.Errorf("tags should be stripped: %q", text)
	}
}
