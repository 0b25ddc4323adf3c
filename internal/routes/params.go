package routes

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"attendance-backend/internal/config"
)

// parseDateQuery reads a YYYY-MM-DD query parameter in the configured time
// zone. An absent parameter falls back to def.
func parseDateQuery(c *gin.Context, name string, def time.Time) (time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return def, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, config.Cfg.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidParameter, name)
	}
	return t, nil
}

// parseOptionalDateQuery is parseDateQuery for open-ended range bounds.
func parseOptionalDateQuery(c *gin.Context, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, config.Cfg.Location())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParameter, name)
	}
	return &t, nil
}

// parseYearMonthQuery reads year and month query parameters, defaulting to
// the current month.
func parseYearMonthQuery(c *gin.Context) (int, time.Month, error) {
	now := time.Now().In(config.Cfg.Location())
	year, month := now.Year(), now.Month()

	if value := c.Query("year"); value != "" {
		if _, err := fmt.Sscanf(value, "%d", &year); err != nil || year < 1970 || year > 9999 {
			return 0, 0, fmt.Errorf("%w: year", ErrInvalidParameter)
		}
	}
	if value := c.Query("month"); value != "" {
		var m int
		if _, err := fmt.Sscanf(value, "%d", &m); err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("%w: month", ErrInvalidParameter)
		}
		month = time.Month(m)
	}
	return year, month, nil
}
