package attendance

import (
	"context"
	"fmt"
	"time"

	"attendance-backend/internal/storage"
)

// Query bounds used when one side of a range is open.
var (
	minQueryTime = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	maxQueryTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// AbsenceReport lists the calendar dates of a month without any check-in.
type AbsenceReport struct {
	EmployeeID  string      `json:"employeeId"`
	Year        int         `json:"year"`
	Month       time.Month  `json:"month"`
	AbsentDates []time.Time `json:"absentDates"`
}

// DailyActivity is one employee session joined with identity and agenda data.
type DailyActivity struct {
	EmployeeID      string       `json:"employeeId"`
	EmployeeName    string       `json:"employeeName"`
	CheckInTime     time.Time    `json:"checkInTime"`
	CheckOutTime    *time.Time   `json:"checkOutTime"`
	MinutesWorked   *int64       `json:"totalMinutesWorked"`
	Agendas         []AgendaView `json:"agendas"`
	Remark          *string      `json:"remark"`
	ReferenceLink   *string      `json:"referenceLink"`
	ActiveSession   bool         `json:"activeSession"`
	CheckInLocation string       `json:"checkInLocation"`
}

// AttendancesForEmployee lists sessions whose check-in falls inside the
// inclusive [from, to] date range. Nil bounds leave that side open.
func (s *Service) AttendancesForEmployee(ctx context.Context, employeeID string, from, to *time.Time) ([]storage.Attendance, error) {
	if _, err := s.directory.ResolveByID(ctx, employeeID); err != nil {
		return nil, err
	}

	if from == nil && to == nil {
		return s.store.ListAttendanceByEmployee(ctx, employeeID)
	}

	lower := minQueryTime
	upper := maxQueryTime
	if from != nil {
		f := from.In(s.loc)
		lower = time.Date(f.Year(), f.Month(), f.Day(), 0, 0, 0, 0, s.loc)
	}
	if to != nil {
		t := to.In(s.loc)
		upper = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc).Add(24*time.Hour - time.Second)
	}
	return s.store.ListAttendanceByEmployeeBetween(ctx, employeeID, lower, upper)
}

// MonthlyAbsenceReport computes the dates of the month with no session
// check-in, ascending. A day with any check-in counts as present whether or
// not the session was completed.
func (s *Service) MonthlyAbsenceReport(ctx context.Context, employeeID string, year int, month time.Month) (*AbsenceReport, error) {
	if _, err := s.directory.ResolveByID(ctx, employeeID); err != nil {
		return nil, err
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	nextMonth := monthStart.AddDate(0, 1, 0)

	records, err := s.store.ListAttendanceByEmployeeBetween(ctx, employeeID, monthStart, nextMonth.Add(-time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	present := make(map[string]bool, len(records))
	for _, record := range records {
		present[record.CheckInTime.In(s.loc).Format(time.DateOnly)] = true
	}

	absent := []time.Time{}
	for day := monthStart; day.Before(nextMonth); day = day.AddDate(0, 0, 1) {
		if !present[day.Format(time.DateOnly)] {
			absent = append(absent, day)
		}
	}

	return &AbsenceReport{
		EmployeeID:  employeeID,
		Year:        year,
		Month:       month,
		AbsentDates: absent,
	}, nil
}

// DailyActivities joins the sessions started on the given date with employee
// and agenda data, sorted by check-in time ascending.
func (s *Service) DailyActivities(ctx context.Context, date time.Time) ([]DailyActivity, error) {
	dayStart, dayEnd := s.dayWindow(date)

	sessions, err := s.store.ListAttendanceBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}
	if len(sessions) == 0 {
		return []DailyActivity{}, nil
	}

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	employeeByID := make(map[string]storage.Employee, len(employees))
	for _, employee := range employees {
		employeeByID[employee.ID] = employee
	}

	var allAgendaIDs []string
	for _, session := range sessions {
		allAgendaIDs = append(allAgendaIDs, session.AgendaIDs...)
	}
	agendaByID := make(map[string]storage.Agenda)
	if len(allAgendaIDs) > 0 {
		agendas, err := s.store.GetAgendasByIDs(ctx, allAgendaIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load agendas: %w", err)
		}
		for _, agenda := range agendas {
			agendaByID[agenda.ID] = agenda
		}
	}

	activities := make([]DailyActivity, 0, len(sessions))
	for _, session := range sessions {
		employee, ok := employeeByID[session.EmployeeID]
		if !ok {
			s.logger.Warn("Employee not found for attendance", "attendance_id", session.ID, "employee_id", session.EmployeeID)
			continue
		}

		agendas := make([]AgendaView, 0, len(session.AgendaIDs))
		for _, id := range session.AgendaIDs {
			if agenda, ok := agendaByID[id]; ok {
				agendas = append(agendas, AgendaView{ID: agenda.ID, Title: agenda.Title, Complete: agenda.Complete})
			}
		}

		activities = append(activities, DailyActivity{
			EmployeeID:      employee.ID,
			EmployeeName:    employee.Name,
			CheckInTime:     session.CheckInTime,
			CheckOutTime:    session.CheckOutTime,
			MinutesWorked:   session.MinutesWorked,
			Agendas:         agendas,
			Remark:          session.Remark,
			ReferenceLink:   session.ReferenceLink,
			ActiveSession:   session.ActiveSession,
			CheckInLocation: session.CheckInLocation,
		})
	}
	return activities, nil
}

// DailySummary returns session counts per employee for the given date.
func (s *Service) DailySummary(ctx context.Context, date time.Time) (map[string]int64, error) {
	dayStart, dayEnd := s.dayWindow(date)

	sessions, err := s.store.ListAttendanceBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	summary := make(map[string]int64)
	for _, session := range sessions {
		summary[session.EmployeeID]++
	}
	return summary, nil
}

// WeeklyMinutes sums worked minutes over closed sessions in the inclusive
// [weekStart, weekEnd] date range.
func (s *Service) WeeklyMinutes(ctx context.Context, employeeID string, weekStart, weekEnd time.Time) (int64, error) {
	start := time.Date(weekStart.Year(), weekStart.Month(), weekStart.Day(), 0, 0, 0, 0, s.loc)
	end := time.Date(weekEnd.Year(), weekEnd.Month(), weekEnd.Day(), 0, 0, 0, 0, s.loc).Add(24*time.Hour - time.Second)

	sessions, err := s.store.ListAttendanceByEmployeeBetween(ctx, employeeID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to load attendance: %w", err)
	}

	var total int64
	for _, session := range sessions {
		if session.ActiveSession || session.CheckOutTime == nil {
			continue
		}
		if session.MinutesWorked != nil {
			total += *session.MinutesWorked
		} else {
			total += int64(session.CheckOutTime.Sub(session.CheckInTime) / time.Minute)
		}
	}
	return total, nil
}

// MonthlyMinutes sums worked minutes over the whole month.
func (s *Service) MonthlyMinutes(ctx context.Context, employeeID string, year int, month time.Month) (int64, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	last := first.AddDate(0, 1, -1)
	return s.WeeklyMinutes(ctx, employeeID, first, last)
}
