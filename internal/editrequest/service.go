package editrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"attendance-backend/internal/config"
	"attendance-backend/internal/storage"
)

var (
	ErrFutureDate      = errors.New("edit requests cannot be created for future dates")
	ErrTimeOrder       = errors.New("check-in time must be before check-out time")
	ErrOverlap         = errors.New("requested time overlaps with another attendance record")
	ErrRequestNotFound = errors.New("edit request not found")
	ErrAlreadyReviewed = errors.New("edit request has already been reviewed")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)

type Service struct {
	store storage.Provider

	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

func NewService(store storage.Provider, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		loc:    cfg.Location(),
		now:    time.Now,
		logger: slog.With("component", "editrequest"),
	}
}

// CreateRequest validates and persists a PENDING correction request. The
// proposed window must not overlap any other session of the employee on the
// same calendar day; the targeted record itself is excluded from the check.
func (s *Service) CreateRequest(ctx context.Context, employeeID, attendanceID string, date time.Time, requestCheckIn, requestCheckOut *time.Time, reason string) (*storage.EditRequest, error) {
	now := s.now().In(s.loc)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	if day.After(today) {
		return nil, ErrFutureDate
	}
	if requestCheckIn != nil && requestCheckOut != nil && requestCheckIn.After(*requestCheckOut) {
		return nil, ErrTimeOrder
	}

	// Persist in the configured location so stored timestamps compare
	// consistently regardless of the offset the client sent.
	requestCheckIn = normalize(requestCheckIn, s.loc)
	requestCheckOut = normalize(requestCheckOut, s.loc)

	sameDay, err := s.store.ListAttendanceByEmployeeBetween(ctx, employeeID, day, day.AddDate(0, 0, 1).Add(-time.Second))
	if err != nil {
		return nil, fmt.Errorf("failed to load day's attendance: %w", err)
	}

	for _, session := range sameDay {
		if session.ID == attendanceID {
			continue
		}
		if timesOverlap(requestCheckIn, requestCheckOut, &session.CheckInTime, session.CheckOutTime) {
			s.logger.Warn("Edit request overlaps attendance", "employee_id", employeeID, "attendance_id", session.ID)
			return nil, ErrOverlap
		}
	}

	request := &storage.EditRequest{
		ID:              uuid.NewString(),
		EmployeeID:      employeeID,
		AttendanceID:    attendanceID,
		Date:            day,
		RequestCheckIn:  requestCheckIn,
		RequestCheckOut: requestCheckOut,
		Reason:          reason,
		Status:          storage.RequestStatusPending,
		CreatedAt:       now,
	}
	if err := s.store.CreateEditRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save edit request: %w", err)
	}

	// Advisory marker on the targeted session, when one was named.
	if attendanceID != "" {
		if session, err := s.store.GetAttendance(ctx, attendanceID); err == nil {
			session.EditRequestStatus = storage.RequestStatusPending
			session.EditRequestID = &request.ID
			if err := s.store.SaveAttendance(ctx, session); err != nil {
				s.logger.Error("Failed to mark attendance with pending request", "attendance_id", attendanceID, "error", err)
			}
		}
	}

	s.logger.Info("Edit request created", "request_id", request.ID, "employee_id", employeeID)
	return request, nil
}

// ReviewRequest terminally transitions a PENDING request. On approval the
// targeted session's check-in/check-out times are overwritten with the
// proposed values; the target must resolve or the review fails and the
// request stays PENDING. Rejection leaves the target session unmodified.
func (s *Service) ReviewRequest(ctx context.Context, requestID, reviewedBy string, approved bool) (*storage.EditRequest, error) {
	request, err := s.store.GetEditRequest(ctx, requestID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	if err != nil {
		return nil, err
	}
	if request.Status != storage.RequestStatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrAlreadyReviewed, requestID, request.Status)
	}

	if approved {
		session, err := s.store.GetAttendance(ctx, request.AttendanceID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAttendanceNotFound, request.AttendanceID)
		}
		if err != nil {
			return nil, err
		}

		if request.RequestCheckIn != nil {
			session.CheckInTime = request.RequestCheckIn.In(s.loc)
		}
		session.CheckOutTime = normalize(request.RequestCheckOut, s.loc)
		session.EditRequestStatus = storage.RequestStatusApproved
		session.EditRequestID = &request.ID
		if err := s.store.SaveAttendance(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to apply correction: %w", err)
		}
	}

	now := s.now().In(s.loc)
	request.ReviewedBy = &reviewedBy
	request.ReviewedAt = &now
	if approved {
		request.Status = storage.RequestStatusApproved
	} else {
		request.Status = storage.RequestStatusRejected
	}

	if err := s.store.SaveEditRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	s.logger.Info("Edit request reviewed", "request_id", requestID, "reviewed_by", reviewedBy, "approved", approved)
	return request, nil
}

func (s *Service) RequestsByEmployee(ctx context.Context, employeeID string) ([]storage.EditRequest, error) {
	return s.store.ListEditRequestsByEmployee(ctx, employeeID)
}

func (s *Service) AllRequests(ctx context.Context) ([]storage.EditRequest, error) {
	return s.store.ListEditRequests(ctx)
}

func (s *Service) RequestByID(ctx context.Context, requestID string) (*storage.EditRequest, error) {
	request, err := s.store.GetEditRequest(ctx, requestID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRequestNotFound, requestID)
	}
	return request, err
}

func normalize(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}

// timesOverlap reports whether two closed intervals share an instant. Any
// missing bound means no overlap, matching how open sessions are treated.
func timesOverlap(start1, end1, start2, end2 *time.Time) bool {
	if start1 == nil || end1 == nil || start2 == nil || end2 == nil {
		return false
	}
	return !start1.After(*end2) && !start2.After(*end1)
}
