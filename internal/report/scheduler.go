package report

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// NewReportScheduler wires the monthly mail-out onto a cron schedule. Each
// run covers the previous calendar month. The caller starts and stops the
// returned cron.
func NewReportScheduler(service *Service, schedule string) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(service.loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		year, month := PreviousMonth(time.Now().In(service.loc))
		if err := service.MailMonthlyTimesheets(ctx, year, month); err != nil {
			service.logger.Error("Monthly report mail-out failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}
	return c, nil
}

// PreviousMonth returns the calendar month before the one containing now.
// Anchoring to the first of the month avoids AddDate's day normalization,
// which would skip short months when now is the 29th-31st.
func PreviousMonth(now time.Time) (int, time.Month) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previous := first.AddDate(0, -1, 0)
	return previous.Year(), previous.Month()
}
