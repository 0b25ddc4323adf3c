package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"attendance-backend/internal/storage"
)

// Remark written onto sessions force-closed by the cutoff job.
const cutoffRemark = "Auto checkout - Daily cutoff"

// RunCutoff force-closes every session still active whose check-in lies
// within the lookback window and opens a continuation session shortly after
// the cutoff instant, carrying incomplete agenda items forward. Each session
// is processed independently; a failure on one is logged and the run
// continues. Returns the number of sessions closed.
func (s *Service) RunCutoff(ctx context.Context, cutoff time.Time) (int, error) {
	cutoff = cutoff.In(s.loc)
	lookbackStart := cutoff.AddDate(0, 0, -s.lookbackDays)

	s.logger.Info("Cutoff run started", "cutoff", cutoff, "lookback_start", lookbackStart)

	sessions, err := s.store.ListActiveAttendanceBetween(ctx, lookbackStart, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list active sessions: %w", err)
	}

	closed := 0
	for _, session := range sessions {
		if err := s.cutoffOne(ctx, session, cutoff); err != nil {
			s.logger.Error("Cutoff failed for session", "attendance_id", session.ID, "employee_id", session.EmployeeID, "error", err)
			continue
		}
		closed++
	}

	s.logger.Info("Cutoff run finished", "candidates", len(sessions), "closed", closed)
	return closed, nil
}

func (s *Service) cutoffOne(ctx context.Context, session storage.Attendance, cutoff time.Time) error {
	minutes := int64(cutoff.Sub(session.CheckInTime) / time.Minute)
	remark := cutoffRemark

	applied, err := s.store.CloseAttendance(ctx, session.ID, cutoff, &remark, nil, minutes)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	if !applied {
		// Closed concurrently (manual check-out won the race). The employee
		// ended the day deliberately, so no continuation session is opened.
		s.logger.Debug("Session already closed, skipping", "attendance_id", session.ID)
		return nil
	}
	s.logger.Info("Auto-checkout complete", "attendance_id", session.ID, "employee_id", session.EmployeeID, "minutes_worked", minutes)

	var carriedIDs storage.StringList
	if len(session.AgendaIDs) > 0 {
		agendas, err := s.store.GetAgendasByIDs(ctx, session.AgendaIDs)
		if err != nil {
			return fmt.Errorf("failed to load agendas: %w", err)
		}

		var carried []storage.Agenda
		for _, agenda := range agendas {
			if agenda.Complete {
				continue
			}
			carried = append(carried, storage.Agenda{
				ID:       uuid.NewString(),
				Title:    agenda.Title,
				Complete: false,
			})
		}
		if len(carried) > 0 {
			if err := s.store.CreateAgendas(ctx, carried); err != nil {
				return fmt.Errorf("failed to carry agendas forward: %w", err)
			}
			carriedIDs = make(storage.StringList, len(carried))
			for i, agenda := range carried {
				carriedIDs[i] = agenda.ID
			}
		}
	}

	continuation := &storage.Attendance{
		ID:                uuid.NewString(),
		EmployeeID:        session.EmployeeID,
		CheckInTime:       cutoff.Add(s.continuationOffset),
		AgendaIDs:         carriedIDs,
		CheckInLocation:   session.CheckInLocation,
		ActiveSession:     true,
		EditRequestStatus: storage.RequestStatusNone,
	}
	if err := s.store.SaveAttendance(ctx, continuation); err != nil {
		return fmt.Errorf("failed to open continuation session: %w", err)
	}

	s.logger.Info("Continuation session opened", "employee_id", session.EmployeeID, "attendance_id", continuation.ID, "agenda_count", len(carriedIDs))
	return nil
}

// NewCutoffScheduler wires RunCutoff onto a cron schedule evaluated in the
// service's time zone. The caller starts and stops the returned cron.
func NewCutoffScheduler(service *Service, schedule string) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(service.loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		if _, err := service.RunCutoff(ctx, time.Now()); err != nil {
			service.logger.Error("Cutoff run failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cutoff schedule %q: %w", schedule, err)
	}
	return c, nil
}
