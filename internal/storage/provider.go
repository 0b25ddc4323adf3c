package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"attendance-backend/internal/config"
)

// ErrNotFound is returned by get-by-id lookups for absent records.
var ErrNotFound = errors.New("record not found")

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// Attendance methods
	GetAttendance(ctx context.Context, id string) (*Attendance, error)
	SaveAttendance(ctx context.Context, attendance *Attendance) error
	// CloseAttendance closes a session only while it is still active.
	// Reports whether the update applied, so a second closer becomes a
	// no-op instead of overwriting minutes_worked.
	CloseAttendance(ctx context.Context, id string, checkOut time.Time, remark, referenceLink *string, minutesWorked int64) (bool, error)
	ListAttendanceByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)
	ListAttendanceByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	CountAttendanceByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (int64, error)
	ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]Attendance, error)
	ListActiveAttendanceByEmployee(ctx context.Context, employeeID string) ([]Attendance, error)
	ListActiveAttendanceBetween(ctx context.Context, from, to time.Time) ([]Attendance, error)

	// Agenda methods
	CreateAgendas(ctx context.Context, agendas []Agenda) error
	GetAgendasByIDs(ctx context.Context, ids []string) ([]Agenda, error)
	SaveAgendas(ctx context.Context, agendas []Agenda) error

	// Edit request methods
	CreateEditRequest(ctx context.Context, request *EditRequest) error
	GetEditRequest(ctx context.Context, id string) (*EditRequest, error)
	SaveEditRequest(ctx context.Context, request *EditRequest) error
	ListEditRequestsByEmployee(ctx context.Context, employeeID string) ([]EditRequest, error)
	ListEditRequests(ctx context.Context) ([]EditRequest, error)

	// Employee methods
	CreateEmployee(ctx context.Context, employee *Employee) error
	GetEmployeeByID(ctx context.Context, id string) (*Employee, error)
	GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	SaveEmployee(ctx context.Context, employee *Employee) error

	// Single-use token methods
	CreateToken(ctx context.Context, token string, purpose string, employeeID string, expiresAt time.Time) error
	ConsumeToken(ctx context.Context, token string, purpose string) (bool, error)
	ExpireTokens(ctx context.Context, now time.Time) error
}

func NewProvider(config *config.Storage) Provider {
	switch {
	case config.SQLite != nil:
		provider := NewSQLiteProvider(config)
		if provider == nil {
			return nil
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported storage configuration", "config", config)
	}

	return nil
}
