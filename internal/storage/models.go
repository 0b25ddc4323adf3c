package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RequestStatus is the review state of an attendance edit request. The
// zero-ish NONE value is used on attendance records that have never been
// targeted by a request.
type RequestStatus string

const (
	RequestStatusNone     RequestStatus = "NONE"
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

type EmployeeRole string

const (
	RoleAdmin    EmployeeRole = "ADMIN"
	RoleHR       EmployeeRole = "HR"
	RoleEmployee EmployeeRole = "EMPLOYEE"
)

// StringList stores an ordered list of ids as a JSON TEXT column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

type Employee struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	Contact      string       `db:"contact"`
	Role         EmployeeRole `db:"role"`
	Position     *string      `db:"position"`
	Address      string       `db:"address"`
	PasswordHash string       `db:"password_hash"`
	Active       bool         `db:"active"`
	CreatedAt    time.Time    `db:"created_at"`
}

type Agenda struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	Complete bool   `db:"complete"`
}

type Attendance struct {
	ID                string        `db:"id"`
	EmployeeID        string        `db:"employee_id"`
	CheckInTime       time.Time     `db:"check_in_time"`
	CheckOutTime      *time.Time    `db:"check_out_time"`
	AgendaIDs         StringList    `db:"agenda_ids"`
	CheckInLocation   string        `db:"check_in_location"`
	Remark            *string       `db:"remark"`
	ReferenceLink     *string       `db:"reference_link"`
	ActiveSession     bool          `db:"active_session"`
	MinutesWorked     *int64        `db:"minutes_worked"`
	EditRequestStatus RequestStatus `db:"edit_request_status"`
	EditRequestID     *string       `db:"edit_request_id"`
}

type EditRequest struct {
	ID              string        `db:"id"`
	EmployeeID      string        `db:"employee_id"`
	AttendanceID    string        `db:"attendance_id"`
	Date            time.Time     `db:"date"`
	RequestCheckIn  *time.Time    `db:"request_check_in"`
	RequestCheckOut *time.Time    `db:"request_check_out"`
	Reason          string        `db:"reason"`
	Status          RequestStatus `db:"status"`
	ReviewedBy      *string       `db:"reviewed_by"`
	ReviewedAt      *time.Time    `db:"reviewed_at"`
	CreatedAt       time.Time     `db:"created_at"`
}
