package config

var defaults = map[string]any{
	"secret":          "",
	"token_ttl":       8 * 60, // 8 hours
	"setup_token_ttl": 24 * 60,
	"log_level":       "info",

	"time_zone": "Asia/Kolkata",

	"daily_checkin_limit": 10,

	"cutoff_schedule":             "59 11 * * *",
	"cutoff_lookback_days":        7,
	"continuation_offset_minutes": 2,

	"report_schedule": "5 12 1 * *",
	"hr_email":        "hr@example.com",

	"rbac.policy_file": "./instance/policy.yaml",

	"email.host":     "host.docker.internal",
	"email.port":     "25",
	"email.username": "",
	"email.password": "",
	"email.from":     "noreply@example.com",

	"storage.sqlite.path": "./data/attendance.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
