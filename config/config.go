package config

const (
	GithubApiBaseUrl = "https://api.github.com"

	// CVSS thresholds used to weigh alerts in the repository risk score
	CriticalRiskThreshold = 9.0
	HighRiskThreshold     = 7.0
	MediumRiskThreshold   = 4.0

	// Tuning constants for critical-risk and high-risk influence
	CriticalRiskAlertConstant = 0.8 // Adjusts the impact of critical alerts
	HighRiskAlertConstant     = 0.4 // Adjusts the impact of high alerts

	// Env prefix for configuration read through viper, e.g. GHALERTS_OWNER
	EnvPrefix = "GHALERTS"
)
