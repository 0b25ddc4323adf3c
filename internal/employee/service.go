package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"attendance-backend/internal/email"
	"attendance-backend/internal/storage"
)

var (
	ErrNotFound    = errors.New("employee not found")
	ErrEmailExists = errors.New("employee with email already exists")
)

// Mailer sends notification mail. Satisfied by *email.Client.
type Mailer interface {
	Send(msg *email.Message) error
}

type Service struct {
	store  storage.Provider
	mailer Mailer
	logger *slog.Logger
}

func NewService(store storage.Provider, mailer Mailer) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		logger: slog.With("component", "employee"),
	}
}

// Create persists a new employee with a bcrypt hash of the given password
// and sends an invite mail. Mail failure is logged, not returned; the
// account exists either way.
func (s *Service) Create(ctx context.Context, employee storage.Employee, password string) (*storage.Employee, error) {
	if _, err := s.store.GetEmployeeByEmail(ctx, employee.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee.PasswordHash = string(hash)
	employee.Active = true
	employee.CreatedAt = time.Now().UTC()
	if employee.ID == "" {
		employee.ID = generateEmployeeID()
	}
	if employee.Role == "" {
		employee.Role = storage.RoleEmployee
	}

	if err := s.store.CreateEmployee(ctx, &employee); err != nil {
		return nil, err
	}
	s.logger.Info("Employee created", "employee_id", employee.ID, "email", employee.Email)

	if s.mailer != nil {
		if err := s.mailer.Send(inviteMessage(employee.Email, employee.Name, password)); err != nil {
			s.logger.Error("Failed to send invite email", "email", employee.Email, "error", err)
		}
	}

	return &employee, nil
}

// ResolveByID is the identity lookup all attendance operations delegate to.
func (s *Service) ResolveByID(ctx context.Context, employeeID string) (*storage.Employee, error) {
	employee, err := s.store.GetEmployeeByID(ctx, employeeID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, employeeID)
	}
	return employee, err
}

func (s *Service) ResolveByEmail(ctx context.Context, address string) (*storage.Employee, error) {
	employee, err := s.store.GetEmployeeByEmail(ctx, address)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	return employee, err
}

func (s *Service) List(ctx context.Context) ([]storage.Employee, error) {
	return s.store.ListEmployees(ctx)
}

func (s *Service) SetActive(ctx context.Context, employeeID string, active bool) error {
	employee, err := s.ResolveByID(ctx, employeeID)
	if err != nil {
		return err
	}
	employee.Active = active
	if err := s.store.SaveEmployee(ctx, employee); err != nil {
		return err
	}
	s.logger.Info("Employee active flag updated", "employee_id", employeeID, "active", active)
	return nil
}

// VerifyPassword checks credentials for login. Returns ErrNotFound for both
// unknown addresses and bad passwords so callers cannot probe accounts.
func (s *Service) VerifyPassword(ctx context.Context, address, password string) (*storage.Employee, error) {
	employee, err := s.ResolveByEmail(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	return employee, nil
}

func (s *Service) SetPassword(ctx context.Context, employeeID, password string) error {
	employee, err := s.ResolveByID(ctx, employeeID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	employee.PasswordHash = string(hash)
	return s.store.SaveEmployee(ctx, employee)
}

func generateEmployeeID() string {
	id := uuid.NewString()
	return "EMP-" + strings.ToUpper(id[:8])
}

func inviteMessage(to, name, temporaryPassword string) *email.Message {
	html := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif; color: #333;">
<p>Dear %s,</p>
<p>Your account for the attendance portal has been created.</p>
<p><strong>Login Credentials:</strong><br>
Email: <strong>%s</strong><br>
Password: <strong>%s</strong></p>
<p>Please log in and update your password at your earliest convenience.</p>
<p>Best regards,<br>HR Team</p>
</body></html>`, name, to, temporaryPassword)

	return &email.Message{
		To:      []string{to},
		Subject: "Welcome to the attendance portal",
		HTML:    html,
	}
}
