package report

import (
	"testing"
	"time"
)

func TestPreviousMonth(t *testing.T) {
	cases := []struct {
		now       time.Time
		wantYear  int
		wantMonth time.Month
	}{
		{time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC), 2026, time.February},
		// Month-end days must not normalize into the current month.
		{time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC), 2026, time.February},
		{time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), 2026, time.April},
		{time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC), 2026, time.June},
		// Year boundary.
		{time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), 2025, time.December},
	}

	for _, tc := range cases {
		year, month := PreviousMonth(tc.now)
		if year != tc.wantYear || month != tc.wantMonth {
			t.Errorf("PreviousMonth(%v): got %d %v, want %d %v", tc.now, year, month, tc.wantYear, tc.wantMonth)
		}
	}
}
