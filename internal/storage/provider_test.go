package storage

import (
	"context"
	"testing"
	"time"

	"attendance-backend/internal/config"
)

func newTestProvider(t *testing.T) Provider {
	t.Helper()

	provider := NewProvider(&config.Storage{
		SQLite: &config.SQLiteStorage{Path: ":memory:"},
	})
	if provider == nil {
		t.Fatal("NewProvider returned nil")
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestMigrations_SchemaVersion(t *testing.T) {
	provider := newTestProvider(t)

	version, err := provider.GetSchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("GetSchemaVersion failed: %v", err)
	}
	if version < 1 {
		t.Fatalf("expected schema version >= 1, got %d", version)
	}
}

func TestAttendance_SaveAndGet(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	record := &Attendance{
		ID:                "att-1",
		EmployeeID:        "emp-1",
		CheckInTime:       time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		AgendaIDs:         StringList{"ag-2", "ag-1", "ag-3"},
		CheckInLocation:   "Office",
		ActiveSession:     true,
		EditRequestStatus: RequestStatusNone,
	}
	if err := provider.SaveAttendance(ctx, record); err != nil {
		t.Fatalf("SaveAttendance failed: %v", err)
	}

	got, err := provider.GetAttendance(ctx, "att-1")
	if err != nil {
		t.Fatalf("GetAttendance failed: %v", err)
	}
	if got.EmployeeID != "emp-1" || !got.ActiveSession {
		t.Errorf("unexpected record: %+v", got)
	}
	if len(got.AgendaIDs) != 3 || got.AgendaIDs[0] != "ag-2" || got.AgendaIDs[2] != "ag-3" {
		t.Errorf("agenda id order not preserved: %v", got.AgendaIDs)
	}

	if _, err := provider.GetAttendance(ctx, "no-such-id"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCloseAttendance_SecondCloseIsNoOp(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	record := &Attendance{
		ID:                "att-1",
		EmployeeID:        "emp-1",
		CheckInTime:       checkIn,
		AgendaIDs:         StringList{},
		CheckInLocation:   "Office",
		ActiveSession:     true,
		EditRequestStatus: RequestStatusNone,
	}
	if err := provider.SaveAttendance(ctx, record); err != nil {
		t.Fatalf("SaveAttendance failed: %v", err)
	}

	checkOut := checkIn.Add(2 * time.Hour)
	remark := "done"
	link := "https://example.com/pr/1"

	applied, err := provider.CloseAttendance(ctx, "att-1", checkOut, &remark, &link, 120)
	if err != nil {
		t.Fatalf("CloseAttendance failed: %v", err)
	}
	if !applied {
		t.Fatal("first close should apply")
	}

	laterRemark := "late"
	applied, err = provider.CloseAttendance(ctx, "att-1", checkOut.Add(time.Hour), &laterRemark, nil, 180)
	if err != nil {
		t.Fatalf("second CloseAttendance failed: %v", err)
	}
	if applied {
		t.Fatal("second close should be a no-op")
	}

	got, err := provider.GetAttendance(ctx, "att-1")
	if err != nil {
		t.Fatalf("GetAttendance failed: %v", err)
	}
	if got.ActiveSession {
		t.Error("session should be closed")
	}
	if got.MinutesWorked == nil || *got.MinutesWorked != 120 {
		t.Errorf("minutes from the first close should stand, got %v", got.MinutesWorked)
	}
	if got.Remark == nil || *got.Remark != "done" {
		t.Errorf("remark from the first close should stand, got %v", got.Remark)
	}
}

func TestGetAgendasByIDs_PreservesRequestOrder(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	agendas := []Agenda{
		{ID: "a", Title: "first"},
		{ID: "b", Title: "second"},
		{ID: "c", Title: "third"},
	}
	if err := provider.CreateAgendas(ctx, agendas); err != nil {
		t.Fatalf("CreateAgendas failed: %v", err)
	}

	got, err := provider.GetAgendasByIDs(ctx, []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("GetAgendasByIDs failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 agendas, got %d", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "a" || got[2].ID != "b" {
		t.Errorf("order not preserved: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestConsumeToken_SingleUse(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(time.Hour)
	if err := provider.CreateToken(ctx, "tok-1", "password_setup", "emp-1", expires); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	consumed, err := provider.ConsumeToken(ctx, "tok-1", "password_setup")
	if err != nil {
		t.Fatalf("ConsumeToken failed: %v", err)
	}
	if !consumed {
		t.Fatal("first consume should succeed")
	}

	consumed, err = provider.ConsumeToken(ctx, "tok-1", "password_setup")
	if err != nil {
		t.Fatalf("second ConsumeToken failed: %v", err)
	}
	if consumed {
		t.Fatal("second consume should fail")
	}
}

func TestConsumeToken_WrongPurpose(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(time.Hour)
	if err := provider.CreateToken(ctx, "tok-1", "password_setup", "emp-1", expires); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	consumed, err := provider.ConsumeToken(ctx, "tok-1", "other_purpose")
	if err != nil {
		t.Fatalf("ConsumeToken failed: %v", err)
	}
	if consumed {
		t.Fatal("consume with wrong purpose should fail")
	}
}

func TestConsumeToken_Expired(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(-time.Minute)
	if err := provider.CreateToken(ctx, "tok-1", "password_setup", "emp-1", expires); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	consumed, err := provider.ConsumeToken(ctx, "tok-1", "password_setup")
	if err != nil {
		t.Fatalf("ConsumeToken failed: %v", err)
	}
	if consumed {
		t.Fatal("expired token should not consume")
	}
}

func TestExpireTokens_SweepsOnlyExpired(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	now := time.Now().UTC()
	if err := provider.CreateToken(ctx, "tok-stale", "password_setup", "emp-1", now.Add(-time.Hour)); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}
	if err := provider.CreateToken(ctx, "tok-live", "password_setup", "emp-1", now.Add(time.Hour)); err != nil {
		t.Fatalf("CreateToken failed: %v", err)
	}

	if err := provider.ExpireTokens(ctx, now); err != nil {
		t.Fatalf("ExpireTokens failed: %v", err)
	}

	consumed, err := provider.ConsumeToken(ctx, "tok-live", "password_setup")
	if err != nil {
		t.Fatalf("ConsumeToken failed: %v", err)
	}
	if !consumed {
		t.Fatal("unexpired token should survive the sweep")
	}
}

func TestListActiveAttendanceByEmployee(t *testing.T) {
	provider := newTestProvider(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	records := []*Attendance{
		{ID: "att-1", EmployeeID: "emp-1", CheckInTime: base, AgendaIDs: StringList{}, ActiveSession: false, EditRequestStatus: RequestStatusNone},
		{ID: "att-2", EmployeeID: "emp-1", CheckInTime: base.Add(time.Hour), AgendaIDs: StringList{}, ActiveSession: true, EditRequestStatus: RequestStatusNone},
		{ID: "att-3", EmployeeID: "emp-2", CheckInTime: base, AgendaIDs: StringList{}, ActiveSession: true, EditRequestStatus: RequestStatusNone},
	}
	for _, record := range records {
		if err := provider.SaveAttendance(ctx, record); err != nil {
			t.Fatalf("SaveAttendance failed: %v", err)
		}
	}

	active, err := provider.ListActiveAttendanceByEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatalf("ListActiveAttendanceByEmployee failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != "att-2" {
		t.Errorf("expected att-2 only, got %+v", active)
	}

	count, err := provider.CountAttendanceByEmployeeBetween(ctx, "emp-1", base.Add(-time.Hour), base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("CountAttendanceByEmployeeBetween failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 records in range, got %d", count)
	}
}
