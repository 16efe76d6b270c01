package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/aussiebroadwan/ledger/internal/ledger/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverJSONFile = "jsonfile"
)

type Config struct {
	Env       string `env:"ENV" envDefault:"dev"`        // Environment (dev, staging, prod)
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"` // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	Port      int    `env:"PORT" envDefault:"8080"`

	StoreDriver  string `env:"LEDGER_STORE_DRIVER" envDefault:"sqlite"` // sqlite or jsonfile
	DatabaseFile string `env:"LEDGER_DATABASE_FILE" envDefault:"ledger.db"`
	JSONFile     string `env:"LEDGER_JSON_FILE" envDefault:"users.json"`
	PepperFile   string `env:"LEDGER_PEPPER_FILE" envDefault:"pepper"`
	UploadDir    string `env:"LEDGER_UPLOAD_DIR" envDefault:"uploads"`

	Currency       string          `env:"LEDGER_CURRENCY" envDefault:"TON"`
	WelcomeBonus   decimal.Decimal `env:"LEDGER_WELCOME_BONUS" envDefault:"0.05"`
	ReferralBonus  decimal.Decimal `env:"LEDGER_REFERRAL_BONUS" envDefault:"0.01"`
	TaskReward     decimal.Decimal `env:"LEDGER_TASK_REWARD" envDefault:"0.01"`
	MinEligibility decimal.Decimal `env:"LEDGER_MIN_ELIGIBILITY" envDefault:"0.05"`
	MaxWithdrawal  decimal.Decimal `env:"LEDGER_MAX_WITHDRAWAL" envDefault:"0.5"`

	// Without a bot token admin messages are only logged and no commands arrive.
	TelegramToken   string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAdminID int64  `env:"TELEGRAM_ADMIN_ID"`

	NotifyTimeout       time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"10s"`
	DigestInterval      time.Duration `env:"DIGEST_INTERVAL" envDefault:"24h"` // 0 disables the digest
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverSQLite, DriverJSONFile:
	default:
		errs = append(errs, fmt.Errorf("LEDGER_STORE_DRIVER: unknown driver %q", c.StoreDriver))
	}

	if c.TelegramToken != "" && c.TelegramAdminID == 0 {
		errs = append(errs, errors.New("TELEGRAM_ADMIN_ID is required when TELEGRAM_BOT_TOKEN is set"))
	}

	if !c.MaxWithdrawal.IsPositive() {
		errs = append(errs, errors.New("LEDGER_MAX_WITHDRAWAL must be positive"))
	}
	for name, v := range map[string]decimal.Decimal{
		"LEDGER_WELCOME_BONUS":   c.WelcomeBonus,
		"LEDGER_REFERRAL_BONUS":  c.ReferralBonus,
		"LEDGER_TASK_REWARD":     c.TaskReward,
		"LEDGER_MIN_ELIGIBILITY": c.MinEligibility,
	} {
		if v.IsNegative() {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}

	return errors.Join(errs...)
}

// Policy returns the monetary rules configured for this process.
func (c Config) Policy() domain.Policy {
	return domain.Policy{
		WelcomeBonus:   c.WelcomeBonus,
		ReferralBonus:  c.ReferralBonus,
		TaskReward:     c.TaskReward,
		MinEligibility: c.MinEligibility,
		MaxWithdrawal:  c.MaxWithdrawal,
		Currency:       c.Currency,
	}
}
