package attendance

import (
	"context"
	"testing"
	"time"
)

func checkInOut(t *testing.T, service *Service, employeeID string, at time.Time, minutes int) {
	t.Helper()

	setClock(service, at)
	result, err := service.CheckIn(context.Background(), employeeID, []string{"Task"}, "Office")
	if err != nil {
		t.Fatalf("CheckIn at %v failed: %v", at, err)
	}

	setClock(service, at.Add(time.Duration(minutes)*time.Minute))
	completions := map[string]bool{result.Agendas[0].ID: true}
	if _, err := service.CheckOut(context.Background(), employeeID, completions, "", "https://example.com"); err != nil {
		t.Fatalf("CheckOut at %v failed: %v", at, err)
	}
}

func TestMonthlyAbsenceReport(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	// Present on the 2nd, 10th and 28th of February 2026.
	for _, day := range []int{2, 10, 28} {
		checkInOut(t, service, "emp-1", time.Date(2026, 2, day, 9, 0, 0, 0, time.UTC), 60)
	}

	report, err := service.MonthlyAbsenceReport(ctx, "emp-1", 2026, time.February)
	if err != nil {
		t.Fatalf("MonthlyAbsenceReport failed: %v", err)
	}

	// February 2026 has 28 days, 3 of which have a check-in.
	if len(report.AbsentDates) != 25 {
		t.Fatalf("expected 25 absent dates, got %d", len(report.AbsentDates))
	}
	if report.AbsentDates[0].Day() != 1 {
		t.Errorf("first absent date should be the 1st, got %v", report.AbsentDates[0])
	}
	for i := 1; i < len(report.AbsentDates); i++ {
		if !report.AbsentDates[i-1].Before(report.AbsentDates[i]) {
			t.Fatalf("absent dates not ascending at index %d", i)
		}
	}
	for _, date := range report.AbsentDates {
		if day := date.Day(); day == 2 || day == 10 || day == 28 {
			t.Errorf("day %d has a check-in and should not be absent", day)
		}
	}
}

func TestWeeklyMinutes_SumsClosedSessionsOnly(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	checkInOut(t, service, "emp-1", monday, 120)
	checkInOut(t, service, "emp-1", monday.AddDate(0, 0, 1), 90)

	// Outside the queried week.
	checkInOut(t, service, "emp-1", monday.AddDate(0, 0, 7), 45)

	// An open session on Wednesday contributes nothing.
	setClock(service, monday.AddDate(0, 0, 2))
	if _, err := service.CheckIn(ctx, "emp-1", []string{"Open"}, "Office"); err != nil {
		t.Fatalf("CheckIn failed: %v", err)
	}

	total, err := service.WeeklyMinutes(ctx, "emp-1", monday, monday.AddDate(0, 0, 6))
	if err != nil {
		t.Fatalf("WeeklyMinutes failed: %v", err)
	}
	if total != 210 {
		t.Errorf("weekly minutes: got %d, want 210", total)
	}
}

func TestMonthlyMinutes(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	checkInOut(t, service, "emp-1", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 100)
	checkInOut(t, service, "emp-1", time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC), 50)
	// Outside the month.
	checkInOut(t, service, "emp-1", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), 60)

	total, err := service.MonthlyMinutes(ctx, "emp-1", 2026, time.March)
	if err != nil {
		t.Fatalf("MonthlyMinutes failed: %v", err)
	}
	if total != 150 {
		t.Errorf("monthly minutes: got %d, want 150", total)
	}
}

func TestDailyActivities(t *testing.T) {
	service, directory := newTestService(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	checkInOut(t, service, "emp-1", day.Add(9*time.Hour), 60)
	checkInOut(t, service, "emp-2", day.Add(10*time.Hour), 30)
	checkInOut(t, service, "emp-1", day.AddDate(0, 0, 1).Add(9*time.Hour), 60)

	activities, err := service.DailyActivities(ctx, day)
	if err != nil {
		t.Fatalf("DailyActivities failed: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activities))
	}
	if activities[0].EmployeeName != directory.employees["emp-1"].Name {
		t.Errorf("unexpected first employee: %q", activities[0].EmployeeName)
	}
	if activities[1].EmployeeID != "emp-2" {
		t.Errorf("expected emp-2 second, got %q", activities[1].EmployeeID)
	}
	if len(activities[0].Agendas) != 1 || activities[0].Agendas[0].Title != "Task" {
		t.Errorf("agenda join missing: %+v", activities[0].Agendas)
	}
}

func TestDailySummary_CountsPerEmployee(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	checkInOut(t, service, "emp-1", day.Add(9*time.Hour), 60)
	checkInOut(t, service, "emp-1", day.Add(12*time.Hour), 60)
	checkInOut(t, service, "emp-2", day.Add(10*time.Hour), 30)

	summary, err := service.DailySummary(ctx, day)
	if err != nil {
		t.Fatalf("DailySummary failed: %v", err)
	}
	if summary["emp-1"] != 2 || summary["emp-2"] != 1 {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestAttendancesForEmployee_RangeBounds(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	checkInOut(t, service, "emp-1", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 60)
	checkInOut(t, service, "emp-1", time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), 60)
	checkInOut(t, service, "emp-1", time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC), 60)

	from := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	records, err := service.AttendancesForEmployee(ctx, "emp-1", &from, nil)
	if err != nil {
		t.Fatalf("AttendancesForEmployee failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("open upper bound: got %d records, want 2", len(records))
	}

	to := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	records, err = service.AttendancesForEmployee(ctx, "emp-1", &from, &to)
	if err != nil {
		t.Fatalf("AttendancesForEmployee failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("closed range: got %d records, want 1", len(records))
	}

	records, err = service.AttendancesForEmployee(ctx, "emp-1", nil, nil)
	if err != nil {
		t.Fatalf("AttendancesForEmployee failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("unbounded: got %d records, want 3", len(records))
	}
}
