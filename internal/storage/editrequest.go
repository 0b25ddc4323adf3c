package storage

import (
	"context"
	"database/sql"
	"errors"
)

const editRequestColumns = `id, employee_id, attendance_id, date, request_check_in,
	request_check_out, reason, status, reviewed_by, reviewed_at, created_at`

func (p *SQLProvider) CreateEditRequest(ctx context.Context, request *EditRequest) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT INTO attendance_edit_requests
			(id, employee_id, attendance_id, date, request_check_in,
			 request_check_out, reason, status, reviewed_by, reviewed_at, created_at)
		VALUES
			(:id, :employee_id, :attendance_id, :date, :request_check_in,
			 :request_check_out, :reason, :status, :reviewed_by, :reviewed_at, :created_at)`,
		request)
	return err
}

func (p *SQLProvider) GetEditRequest(ctx context.Context, id string) (*EditRequest, error) {
	var request EditRequest
	err := p.db.GetContext(ctx, &request,
		"SELECT "+editRequestColumns+" FROM attendance_edit_requests WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (p *SQLProvider) SaveEditRequest(ctx context.Context, request *EditRequest) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO attendance_edit_requests
			(id, employee_id, attendance_id, date, request_check_in,
			 request_check_out, reason, status, reviewed_by, reviewed_at, created_at)
		VALUES
			(:id, :employee_id, :attendance_id, :date, :request_check_in,
			 :request_check_out, :reason, :status, :reviewed_by, :reviewed_at, :created_at)`,
		request)
	return err
}

func (p *SQLProvider) ListEditRequestsByEmployee(ctx context.Context, employeeID string) ([]EditRequest, error) {
	var requests []EditRequest
	err := p.db.SelectContext(ctx, &requests,
		"SELECT "+editRequestColumns+" FROM attendance_edit_requests WHERE employee_id = ? ORDER BY created_at",
		employeeID)
	return requests, err
}

func (p *SQLProvider) ListEditRequests(ctx context.Context) ([]EditRequest, error) {
	var requests []EditRequest
	err := p.db.SelectContext(ctx, &requests,
		"SELECT "+editRequestColumns+" FROM attendance_edit_requests ORDER BY created_at")
	return requests, err
}
