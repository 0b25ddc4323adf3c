package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const attendanceColumns = `id, employee_id, check_in_time, check_out_time, agenda_ids,
	check_in_location, remark, reference_link, active_session, minutes_worked,
	edit_request_status, edit_request_id`

func (p *SQLProvider) GetAttendance(ctx context.Context, id string) (*Attendance, error) {
	var attendance Attendance
	err := p.db.GetContext(ctx, &attendance,
		"SELECT "+attendanceColumns+" FROM attendances WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (p *SQLProvider) SaveAttendance(ctx context.Context, attendance *Attendance) error {
	_, err := p.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO attendances
			(id, employee_id, check_in_time, check_out_time, agenda_ids,
			 check_in_location, remark, reference_link, active_session, minutes_worked,
			 edit_request_status, edit_request_id)
		VALUES
			(:id, :employee_id, :check_in_time, :check_out_time, :agenda_ids,
			 :check_in_location, :remark, :reference_link, :active_session, :minutes_worked,
			 :edit_request_status, :edit_request_id)`,
		attendance)
	return err
}

func (p *SQLProvider) CloseAttendance(ctx context.Context, id string, checkOut time.Time, remark, referenceLink *string, minutesWorked int64) (bool, error) {
	res, err := p.db.ExecContext(ctx, `
		UPDATE attendances
		SET check_out_time = ?,
		    remark = COALESCE(?, remark),
		    reference_link = COALESCE(?, reference_link),
		    active_session = 0,
		    minutes_worked = ?
		WHERE id = ? AND active_session = 1`,
		checkOut, remark, referenceLink, minutesWorked, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (p *SQLProvider) ListAttendanceByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	var records []Attendance
	err := p.db.SelectContext(ctx, &records,
		"SELECT "+attendanceColumns+" FROM attendances WHERE employee_id = ? ORDER BY check_in_time",
		employeeID)
	return records, err
}

func (p *SQLProvider) ListAttendanceByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error) {
	var records []Attendance
	err := p.db.SelectContext(ctx, &records,
		"SELECT "+attendanceColumns+" FROM attendances WHERE employee_id = ? AND check_in_time >= ? AND check_in_time <= ? ORDER BY check_in_time",
		employeeID, from, to)
	return records, err
}

func (p *SQLProvider) CountAttendanceByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (int64, error) {
	var count int64
	err := p.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM attendances WHERE employee_id = ? AND check_in_time >= ? AND check_in_time <= ?",
		employeeID, from, to)
	return count, err
}

func (p *SQLProvider) ListAttendanceBetween(ctx context.Context, from, to time.Time) ([]Attendance, error) {
	var records []Attendance
	err := p.db.SelectContext(ctx, &records,
		"SELECT "+attendanceColumns+" FROM attendances WHERE check_in_time >= ? AND check_in_time <= ? ORDER BY check_in_time",
		from, to)
	return records, err
}

func (p *SQLProvider) ListActiveAttendanceByEmployee(ctx context.Context, employeeID string) ([]Attendance, error) {
	var records []Attendance
	err := p.db.SelectContext(ctx, &records,
		"SELECT "+attendanceColumns+" FROM attendances WHERE employee_id = ? AND active_session = 1",
		employeeID)
	return records, err
}

func (p *SQLProvider) ListActiveAttendanceBetween(ctx context.Context, from, to time.Time) ([]Attendance, error) {
	var records []Attendance
	err := p.db.SelectContext(ctx, &records,
		"SELECT "+attendanceColumns+" FROM attendances WHERE active_session = 1 AND check_in_time >= ? AND check_in_time <= ? ORDER BY check_in_time",
		from, to)
	return records, err
}
