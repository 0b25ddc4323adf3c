package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"attendance-backend/internal/attendance"
	"attendance-backend/internal/email"
	"attendance-backend/internal/employee"
	"attendance-backend/internal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Mailer sends report mail. Satisfied by *email.Client.
type Mailer interface {
	Send(msg *email.Message) error
}

type Service struct {
	attendance *attendance.Service
	employees  *employee.Service
	store      storage.Provider
	mailer     Mailer

	hrEmail string
	loc     *time.Location
	logger  *slog.Logger
}

func NewService(attendanceService *attendance.Service, employeeService *employee.Service, store storage.Provider, mailer Mailer, hrEmail string, loc *time.Location) *Service {
	return &Service{
		attendance: attendanceService,
		employees:  employeeService,
		store:      store,
		mailer:     mailer,
		hrEmail:    hrEmail,
		loc:        loc,
		logger:     slog.With("component", "report"),
	}
}

// MonthlyTimesheet renders one employee's month as an xlsx workbook.
func (s *Service) MonthlyTimesheet(ctx context.Context, employeeID string, year int, month time.Month) ([]byte, error) {
	emp, err := s.employees.ResolveByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)
	records, err := s.attendance.AttendancesForEmployee(ctx, employeeID, &first, &last)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]storage.Attendance)
	for _, record := range records {
		key := record.CheckInTime.In(s.loc).Format(time.DateOnly)
		byDate[key] = append(byDate[key], record)
	}

	return s.renderWorkbook(ctx, emp, year, month, byDate)
}

func (s *Service) renderWorkbook(ctx context.Context, emp *storage.Employee, year int, month time.Month, byDate map[string][]storage.Attendance) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Monthly Timesheet"
	f.SetSheetName("Sheet1", sheet)

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	f.SetCellValue(sheet, "A1", "MONTHLY TIMESHEET")
	f.MergeCell(sheet, "A1", "H1")
	f.SetCellStyle(sheet, "A1", "H1", titleStyle)

	f.SetCellValue(sheet, "A3", "Employee Name:")
	f.SetCellValue(sheet, "B3", emp.Name)
	f.SetCellValue(sheet, "A4", "Month:")
	f.SetCellValue(sheet, "B4", fmt.Sprintf("%s %d", month, year))
	f.SetCellStyle(sheet, "A3", "A4", headerStyle)

	headers := []string{"Date", "Check In", "Check Out", "Minutes", "Agendas", "Completed Agendas", "Reference Link", "Remark"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 6)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	var monthTotal int64
	row := 7
	first := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		dateKey := day.Format(time.DateOnly)
		sessions := byDate[dateKey]

		if len(sessions) == 0 {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), dateKey)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Absent")
			row++
			continue
		}

		for _, session := range sessions {
			agendaTitles, completedTitles, err := s.agendaTitles(ctx, session)
			if err != nil {
				return nil, err
			}

			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), dateKey)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), session.CheckInTime.In(s.loc).Format("15:04"))
			if session.CheckOutTime != nil {
				f.SetCellValue(sheet, fmt.Sprintf("C%d", row), session.CheckOutTime.In(s.loc).Format("15:04"))
			}
			if session.MinutesWorked != nil {
				f.SetCellValue(sheet, fmt.Sprintf("D%d", row), *session.MinutesWorked)
				monthTotal += *session.MinutesWorked
			}
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), strings.Join(agendaTitles, "; "))
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), strings.Join(completedTitles, "; "))
			if session.ReferenceLink != nil {
				f.SetCellValue(sheet, fmt.Sprintf("G%d", row), *session.ReferenceLink)
			}
			if session.Remark != nil {
				f.SetCellValue(sheet, fmt.Sprintf("H%d", row), *session.Remark)
			}
			row++
		}
	}

	row++
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total minutes")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), monthTotal)
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), totalStyle)

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "E", "H", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) agendaTitles(ctx context.Context, session storage.Attendance) (all []string, completed []string, err error) {
	if len(session.AgendaIDs) == 0 {
		return nil, nil, nil
	}
	agendas, err := s.store.GetAgendasByIDs(ctx, session.AgendaIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load agendas: %w", err)
	}
	for _, agenda := range agendas {
		all = append(all, agenda.Title)
		if agenda.Complete {
			completed = append(completed, agenda.Title)
		}
	}
	return all, completed, nil
}

// MailMonthlyTimesheets generates and mails the month's timesheet for every
// active employee to HR, cc the employee. Failures are isolated per
// employee; the mail-out continues.
func (s *Service) MailMonthlyTimesheets(ctx context.Context, year int, month time.Month) error {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	s.logger.Info("Monthly report mail-out started", "year", year, "month", month.String(), "employees", len(employees))

	for _, emp := range employees {
		if !emp.Active {
			s.logger.Debug("Skipping inactive employee", "employee_id", emp.ID)
			continue
		}

		data, err := s.MonthlyTimesheet(ctx, emp.ID, year, month)
		if err != nil {
			s.logger.Error("Failed to generate timesheet", "employee_id", emp.ID, "error", err)
			continue
		}

		filename := timesheetFilename(emp.Name, year, month)
		msg := timesheetMessage(s.hrEmail, emp.Email, emp.Name, year, month, filename, data)
		if err := s.mailer.Send(msg); err != nil {
			s.logger.Error("Failed to send timesheet", "employee_id", emp.ID, "error", err)
			continue
		}
		s.logger.Info("Timesheet sent", "employee_id", emp.ID, "filename", filename)
	}

	s.logger.Info("Monthly report mail-out finished", "year", year, "month", month.String())
	return nil
}

func timesheetFilename(name string, year int, month time.Month) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, name)
	return fmt.Sprintf("%s_timesheet_%s_%d.xlsx", strings.ToLower(sanitized), strings.ToLower(month.String()), year)
}

func timesheetMessage(to, cc, name string, year int, month time.Month, filename string, data []byte) *email.Message {
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Monthly Timesheet Report</h2>
<p>Hello!</p>
<p>Please find attached the monthly timesheet for <strong>%s</strong> for %s %d.</p>
<p>Best regards,<br>Attendance System</p>
</body></html>`, name, month, year)

	return &email.Message{
		To:      []string{to},
		Cc:      []string{cc},
		Subject: fmt.Sprintf("Monthly Timesheet for %s - %s %d", name, month, year),
		HTML:    html,
		Attachments: []email.Attachment{{
			Filename:    filename,
			ContentType: xlsxContentType,
			Data:        data,
		}},
	}
}
