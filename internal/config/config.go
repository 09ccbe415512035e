package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

// PayrollConfig carries every pay-policy constant in one place so a
// deployment can tune them without touching the engine.
type PayrollConfig struct {
	FullDayHours           float64
	LateCutoff             string // "HH:MM", clock-ins after this are late
	LatePenaltyPerMinute   float64
	LatePenaltyCap         float64
	DailyMinimum           float64
	CisRegisteredRate      float64
	CisUnregisteredRate    float64
	WeekPolicy             string // "iso" or "friday-ending"
	PreferStoredHours      bool
	HoursMismatchTolerance float64
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Payroll     PayrollConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	v.SetDefault("PAYROLL_FULL_DAY_HOURS", 8.0)
	v.SetDefault("PAYROLL_LATE_CUTOFF", "08:15")
	v.SetDefault("PAYROLL_LATE_PENALTY_PER_MINUTE", 0.50)
	v.SetDefault("PAYROLL_LATE_PENALTY_CAP", 50.0)
	v.SetDefault("PAYROLL_DAILY_MINIMUM", 100.0)
	v.SetDefault("PAYROLL_CIS_REGISTERED_RATE", 0.20)
	v.SetDefault("PAYROLL_CIS_UNREGISTERED_RATE", 0.30)
	v.SetDefault("PAYROLL_WEEK_POLICY", "iso")
	v.SetDefault("PAYROLL_PREFER_STORED_HOURS", true)
	v.SetDefault("PAYROLL_HOURS_MISMATCH_TOLERANCE", 0.05)

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Payroll: PayrollConfig{
			FullDayHours:           v.GetFloat64("PAYROLL_FULL_DAY_HOURS"),
			LateCutoff:             v.GetString("PAYROLL_LATE_CUTOFF"),
			LatePenaltyPerMinute:   v.GetFloat64("PAYROLL_LATE_PENALTY_PER_MINUTE"),
			LatePenaltyCap:         v.GetFloat64("PAYROLL_LATE_PENALTY_CAP"),
			DailyMinimum:           v.GetFloat64("PAYROLL_DAILY_MINIMUM"),
			CisRegisteredRate:      v.GetFloat64("PAYROLL_CIS_REGISTERED_RATE"),
			CisUnregisteredRate:    v.GetFloat64("PAYROLL_CIS_UNREGISTERED_RATE"),
			WeekPolicy:             v.GetString("PAYROLL_WEEK_POLICY"),
			PreferStoredHours:      v.GetBool("PAYROLL_PREFER_STORED_HOURS"),
			HoursMismatchTolerance: v.GetFloat64("PAYROLL_HOURS_MISMATCH_TOLERANCE"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Payroll.FullDayHours <= 0 {
		return fmt.Errorf("PAYROLL_FULL_DAY_HOURS must be positive")
	}
	switch cfg.Payroll.WeekPolicy {
	case "iso", "friday-ending":
	default:
		return fmt.Errorf("PAYROLL_WEEK_POLICY must be \"iso\" or \"friday-ending\", got %q", cfg.Payroll.WeekPolicy)
	}
	if _, err := parseClock(cfg.Payroll.LateCutoff); err != nil {
		return fmt.Errorf("PAYROLL_LATE_CUTOFF: %w", err)
	}
	return nil
}

func parseClock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	var h, m int
	if _, err := fmt.Sscanf(raw, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("expected HH:MM, got %q", raw)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value out of range: %q", raw)
	}
	return h*60 + m, nil
}
