package attendance

import (
	"context"
	"testing"
	"time"

	"attendance-backend/internal/storage"
)

func TestRunCutoff_ClosesAndCarriesForward(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	setClock(service, checkIn)

	result, err := service.CheckIn(ctx, "emp-1", []string{"Finished work", "Leftover work"}, "Remote")
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}

	// Mark the first agenda complete mid-session.
	agendas, err := service.store.GetAgendasByIDs(ctx, result.Attendance.AgendaIDs)
	if err != nil {
		t.Fatalf("GetAgendasByIDs failed: %v", err)
	}
	agendas[0].Complete = true
	if err := service.store.SaveAgendas(ctx, agendas); err != nil {
		t.Fatalf("SaveAgendas failed: %v", err)
	}

	cutoff := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	closed, err := service.RunCutoff(ctx, cutoff)
	if err != nil {
		t.Fatalf("RunCutoff failed: %v", err)
	}
	if closed != 1 {
		t.Fatalf("expected 1 closed session, got %d", closed)
	}

	original, err := service.store.GetAttendance(ctx, result.Attendance.ID)
	if err != nil {
		t.Fatalf("GetAttendance failed: %v", err)
	}
	if original.ActiveSession {
		t.Error("original session should be closed")
	}
	if original.Remark == nil || *original.Remark != "Auto checkout - Daily cutoff" {
		t.Errorf("unexpected remark: %v", original.Remark)
	}
	wantMinutes := int64(cutoff.Sub(checkIn) / time.Minute)
	if original.MinutesWorked == nil || *original.MinutesWorked != wantMinutes {
		t.Errorf("minutes worked: got %v, want %d", original.MinutesWorked, wantMinutes)
	}

	// A continuation session opens two minutes after the cutoff carrying
	// the incomplete agenda under a fresh id.
	active, err := service.store.ListActiveAttendanceByEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatalf("ListActiveAttendanceByEmployee failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 continuation session, got %d", len(active))
	}
	continuation := active[0]

	wantStart := cutoff.Add(2 * time.Minute)
	if !continuation.CheckInTime.Equal(wantStart) {
		t.Errorf("continuation start: got %v, want %v", continuation.CheckInTime, wantStart)
	}
	if continuation.CheckInLocation != "Remote" {
		t.Errorf("continuation location: got %q, want %q", continuation.CheckInLocation, "Remote")
	}
	if len(continuation.AgendaIDs) != 1 {
		t.Fatalf("expected 1 carried agenda, got %d", len(continuation.AgendaIDs))
	}
	if continuation.AgendaIDs[0] == agendas[1].ID {
		t.Error("carried agenda should get a fresh id")
	}

	carried, err := service.store.GetAgendasByIDs(ctx, continuation.AgendaIDs)
	if err != nil {
		t.Fatalf("GetAgendasByIDs failed: %v", err)
	}
	if carried[0].Title != "Leftover work" || carried[0].Complete {
		t.Errorf("unexpected carried agenda: %+v", carried[0])
	}
}

func TestRunCutoff_AllCompleteOpensEmptyContinuation(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	setClock(service, checkIn)

	result, err := service.CheckIn(ctx, "emp-1", []string{"Only task"}, "Office")
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}

	agendas, err := service.store.GetAgendasByIDs(ctx, result.Attendance.AgendaIDs)
	if err != nil {
		t.Fatalf("GetAgendasByIDs failed: %v", err)
	}
	agendas[0].Complete = true
	if err := service.store.SaveAgendas(ctx, agendas); err != nil {
		t.Fatalf("SaveAgendas failed: %v", err)
	}

	cutoff := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	if _, err := service.RunCutoff(ctx, cutoff); err != nil {
		t.Fatalf("RunCutoff failed: %v", err)
	}

	active, err := service.store.ListActiveAttendanceByEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatalf("ListActiveAttendanceByEmployee failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 continuation session, got %d", len(active))
	}
	if len(active[0].AgendaIDs) != 0 {
		t.Errorf("continuation should carry no agendas, got %v", active[0].AgendaIDs)
	}
}

func TestRunCutoff_IgnoresSessionsOutsideLookback(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	stale := &storage.Attendance{
		ID:                "att-stale",
		EmployeeID:        "emp-1",
		CheckInTime:       time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		AgendaIDs:         storage.StringList{},
		CheckInLocation:   "Office",
		ActiveSession:     true,
		EditRequestStatus: storage.RequestStatusNone,
	}
	if err := service.store.SaveAttendance(ctx, stale); err != nil {
		t.Fatalf("SaveAttendance failed: %v", err)
	}

	cutoff := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	closed, err := service.RunCutoff(ctx, cutoff)
	if err != nil {
		t.Fatalf("RunCutoff failed: %v", err)
	}
	if closed != 0 {
		t.Fatalf("expected 0 closed sessions, got %d", closed)
	}

	got, err := service.store.GetAttendance(ctx, "att-stale")
	if err != nil {
		t.Fatalf("GetAttendance failed: %v", err)
	}
	if !got.ActiveSession {
		t.Error("session outside the lookback window should stay open")
	}
}

func TestCutoffOne_SkipsContinuationWhenAlreadyClosed(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	checkIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	setClock(service, checkIn)

	result, err := service.CheckIn(ctx, "emp-1", []string{"Task"}, "Office")
	if err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}
	stale := *result.Attendance

	// The employee checks out before the cutoff gets to the session.
	setClock(service, checkIn.Add(8*time.Hour))
	completions := map[string]bool{result.Agendas[0].ID: true}
	if _, err := service.CheckOut(ctx, "emp-1", completions, "", "https://example.com"); err != nil {
		t.Fatalf("CheckOut failed: %v", err)
	}

	cutoff := time.Date(2026, 3, 2, 23, 59, 0, 0, time.UTC)
	if err := service.cutoffOne(ctx, stale, cutoff); err != nil {
		t.Fatalf("cutoffOne failed: %v", err)
	}

	// Deliberate check-out wins: no continuation session.
	active, err := service.store.ListActiveAttendanceByEmployee(ctx, "emp-1")
	if err != nil {
		t.Fatalf("ListActiveAttendanceByEmployee failed: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no continuation session, got %d", len(active))
	}

	got, err := service.store.GetAttendance(ctx, stale.ID)
	if err != nil {
		t.Fatalf("GetAttendance failed: %v", err)
	}
	if got.MinutesWorked == nil || *got.MinutesWorked != 480 {
		t.Errorf("manual check-out minutes should stand, got %v", got.MinutesWorked)
	}
}
