package config

type Report struct {
	// Timezone pins the calendar day used by the daily sales report.
	// Truncating a timestamp to a date is timezone-sensitive; leaving this to
	// server-local time causes off-by-one-day results across deployments.
	Timezone string `env:"REPORT_TIMEZONE" envDefault:"UTC"`
}
