package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"attendance-backend/internal/config"
	"attendance-backend/internal/storage"
)

// Directory resolves employee identities. Satisfied by *employee.Service.
type Directory interface {
	ResolveByID(ctx context.Context, employeeID string) (*storage.Employee, error)
}

// AgendaView is the agenda shape returned to callers alongside a session.
type AgendaView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Complete bool   `json:"complete"`
}

// SessionResult pairs a session with its agenda items for display.
type SessionResult struct {
	Attendance *storage.Attendance `json:"attendance"`
	Agendas    []AgendaView        `json:"agendas"`
}

type Service struct {
	store     storage.Provider
	directory Directory

	loc                *time.Location
	dailyLimit         int
	lookbackDays       int
	continuationOffset time.Duration

	now    func() time.Time
	logger *slog.Logger
}

func NewService(store storage.Provider, directory Directory, cfg *config.Config) *Service {
	return &Service{
		store:              store,
		directory:          directory,
		loc:                cfg.Location(),
		dailyLimit:         cfg.DailyCheckInLimit,
		lookbackDays:       cfg.CutoffLookbackDays,
		continuationOffset: time.Duration(cfg.ContinuationOffsetMinutes) * time.Minute,
		now:                time.Now,
		logger:             slog.With("component", "attendance"),
	}
}

// dayWindow returns the inclusive bounds of the calendar day containing t.
func (s *Service) dayWindow(t time.Time) (time.Time, time.Time) {
	t = t.In(s.loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
	return start, start.Add(24*time.Hour - time.Second)
}

// CheckIn opens a new active session for the employee. Rules, in order:
// below the daily check-in limit, no session currently active, and at
// least one agenda title supplied.
func (s *Service) CheckIn(ctx context.Context, employeeID string, agendaTitles []string, location string) (*SessionResult, error) {
	s.logger.Info("Check-in requested", "employee_id", employeeID, "location", location, "agenda_count", len(agendaTitles))

	employee, err := s.directory.ResolveByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !employee.Active {
		return nil, fmt.Errorf("%w: %s", ErrEmployeeInactive, employeeID)
	}

	now := s.now().In(s.loc)
	dayStart, dayEnd := s.dayWindow(now)

	count, err := s.store.CountAttendanceByEmployeeBetween(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to count check-ins: %w", err)
	}
	if count >= int64(s.dailyLimit) {
		s.logger.Warn("Daily check-in limit reached", "employee_id", employeeID, "count", count)
		return nil, ErrDailyLimitReached
	}

	active, err := s.store.ListActiveAttendanceByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}
	if len(active) > 0 {
		s.logger.Warn("Active session exists", "employee_id", employeeID, "attendance_id", active[0].ID)
		return nil, ErrAlreadyCheckedIn
	}

	titles := make([]string, 0, len(agendaTitles))
	for _, title := range agendaTitles {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			titles = append(titles, trimmed)
		}
	}
	if len(titles) == 0 {
		return nil, ErrAgendaRequired
	}

	agendas := make([]storage.Agenda, len(titles))
	for i, title := range titles {
		agendas[i] = storage.Agenda{
			ID:       uuid.NewString(),
			Title:    title,
			Complete: false,
		}
	}
	if err := s.store.CreateAgendas(ctx, agendas); err != nil {
		return nil, fmt.Errorf("failed to create agendas: %w", err)
	}

	agendaIDs := make(storage.StringList, len(agendas))
	for i, agenda := range agendas {
		agendaIDs[i] = agenda.ID
	}

	session := &storage.Attendance{
		ID:                uuid.NewString(),
		EmployeeID:        employeeID,
		CheckInTime:       now,
		AgendaIDs:         agendaIDs,
		CheckInLocation:   location,
		ActiveSession:     true,
		EditRequestStatus: storage.RequestStatusNone,
	}
	if err := s.store.SaveAttendance(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save attendance: %w", err)
	}

	s.logger.Info("Check-in successful", "employee_id", employeeID, "attendance_id", session.ID)
	return &SessionResult{Attendance: session, Agendas: agendaViews(agendas)}, nil
}

// CheckOut closes the employee's active session, applying agenda completion
// flags. Every agenda attached to the session must appear in completions;
// extra keys are ignored.
func (s *Service) CheckOut(ctx context.Context, employeeID string, completions map[string]bool, remark, referenceLink string) (*SessionResult, error) {
	s.logger.Info("Check-out requested", "employee_id", employeeID)

	if _, err := s.directory.ResolveByID(ctx, employeeID); err != nil {
		return nil, err
	}

	active, err := s.store.ListActiveAttendanceByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}
	if len(active) == 0 {
		s.logger.Warn("No active session for check-out", "employee_id", employeeID)
		return nil, ErrNoActiveSession
	}
	session := active[0]

	if strings.TrimSpace(referenceLink) == "" {
		return nil, ErrReferenceLinkRequired
	}

	var agendas []storage.Agenda
	if len(session.AgendaIDs) > 0 {
		missing := 0
		for _, id := range session.AgendaIDs {
			if _, ok := completions[id]; !ok {
				missing++
			}
		}
		if missing > 0 {
			s.logger.Warn("Agenda completion status missing", "employee_id", employeeID, "missing", missing)
			return nil, fmt.Errorf("%w for %d agenda(s)", ErrAgendaCompletionMissing, missing)
		}

		agendas, err = s.store.GetAgendasByIDs(ctx, session.AgendaIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load agendas: %w", err)
		}
		if len(agendas) != len(session.AgendaIDs) {
			return nil, fmt.Errorf("%w: attendance %s", ErrAgendaNotFound, session.ID)
		}

		for i := range agendas {
			agendas[i].Complete = completions[agendas[i].ID]
		}
	}

	now := s.now().In(s.loc)
	minutes := int64(now.Sub(session.CheckInTime) / time.Minute)

	// Close before touching agendas so losing the race against another
	// closer leaves the already-closed session's agenda flags intact.
	applied, err := s.store.CloseAttendance(ctx, session.ID, now, &remark, &referenceLink, minutes)
	if err != nil {
		return nil, fmt.Errorf("failed to close attendance: %w", err)
	}
	if !applied {
		s.logger.Warn("Session already closed by another caller", "employee_id", employeeID, "attendance_id", session.ID)
		return nil, ErrNoActiveSession
	}

	if len(agendas) > 0 {
		if err := s.store.SaveAgendas(ctx, agendas); err != nil {
			// Session is closed but the flags did not land.
			s.logger.Error("Failed to save agenda completions after close", "attendance_id", session.ID, "error", err)
			return nil, fmt.Errorf("failed to save agendas: %w", err)
		}
	}

	session.CheckOutTime = &now
	session.Remark = &remark
	session.ReferenceLink = &referenceLink
	session.ActiveSession = false
	session.MinutesWorked = &minutes

	s.logger.Info("Check-out successful", "employee_id", employeeID, "attendance_id", session.ID, "minutes_worked", minutes)
	return &SessionResult{Attendance: &session, Agendas: agendaViews(agendas)}, nil
}

// GetActiveSession returns the employee's open session with agenda items.
func (s *Service) GetActiveSession(ctx context.Context, employeeID string) (*SessionResult, error) {
	if _, err := s.directory.ResolveByID(ctx, employeeID); err != nil {
		return nil, err
	}

	active, err := s.store.ListActiveAttendanceByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}
	if len(active) == 0 {
		return nil, ErrNoActiveSession
	}
	session := active[0]

	agendas, err := s.store.GetAgendasByIDs(ctx, session.AgendaIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load agendas: %w", err)
	}
	return &SessionResult{Attendance: &session, Agendas: agendaViews(agendas)}, nil
}

// AgendasForAttendance lists the agenda items of a single session.
func (s *Service) AgendasForAttendance(ctx context.Context, attendanceID string) ([]AgendaView, error) {
	session, err := s.store.GetAttendance(ctx, attendanceID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", ErrAttendanceNotFound, attendanceID)
		}
		return nil, err
	}
	if len(session.AgendaIDs) == 0 {
		return []AgendaView{}, nil
	}

	agendas, err := s.store.GetAgendasByIDs(ctx, session.AgendaIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load agendas: %w", err)
	}
	return agendaViews(agendas), nil
}

func agendaViews(agendas []storage.Agenda) []AgendaView {
	views := make([]AgendaView, len(agendas))
	for i, agenda := range agendas {
		views[i] = AgendaView{ID: agenda.ID, Title: agenda.Title, Complete: agenda.Complete}
	}
	return views
}
