package storage

import (
	"context"
	"database/sql"
	"errors"
)

const employeeColumns = `id, name, email, contact, role, position, address,
	password_hash, active, created_at`

func (p *SQLProvider) CreateEmployee(ctx context.Context, employee *Employee) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO employees
			(id, name, email, contact, role, position, address, password_hash, active, created_at)
		VALUES
			(:id, :name, :email, :contact, :role, :position, :address, :password_hash, :active, :created_at)`,
		employee)
	return err
}

func (p *SQLProvider) GetEmployeeByID(ctx context.Context, id string) (*Employee, error) {
	var employee Employee
	err := p.db.GetContext(ctx, &employee,
		"SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (p *SQLProvider) GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error) {
	var employee Employee
	err := p.db.GetContext(ctx, &employee,
		"SELECT "+employeeColumns+" FROM employees WHERE email = ?", email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (p *SQLProvider) ListEmployees(ctx context.Context) ([]Employee, error) {
	var employees []Employee
	err := p.db.SelectContext(ctx, &employees,
		"SELECT "+employeeColumns+" FROM employees ORDER BY created_at")
	return employees, err
}

func (p *SQLProvider) SaveEmployee(ctx context.Context, employee *Employee) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO employees
			(id, name, email, contact, role, position, address, password_hash, active, created_at)
		VALUES
			(:id, :name, :email, :contact, :role, :position, :address, :password_hash, :active, :created_at)`,
		employee)
	return err
}
