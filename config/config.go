package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`

	Database  DatabaseConfigs  `toml:"database"`
	ApiServer ServerConfigs    `toml:"api_server"`
	Auth      AuthConfigs      `toml:"auth"`
	Redis     RedisConfigs     `toml:"redis"`
	Kafka     KafkaConfigs     `toml:"kafka"`
	Ledger    LedgerConfigs    `toml:"ledger"`
	Finalizer FinalizerConfigs `toml:"finalizer"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	LogLevel string `toml:"log_level"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type AuthConfigs struct {
	// Method is either "jwt" or "oidc".
	Method string `toml:"method"`

	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`

	OIDC OIDCConfigs `toml:"oidc"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type OIDCConfigs struct {
	Issuer   string `toml:"issuer"`
	ClientID string `toml:"client_id"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr        string `toml:"addr"`
	LedgerTopic string `toml:"ledger_topic"`
}

type LedgerConfigs struct {
	TimeZone string `toml:"time_zone"`

	// Weekday on which the weekly bonus skip can be claimed.
	BonusWeekday time.Weekday `toml:"bonus_weekday"`

	// Skips granted to a freshly initialized user.
	InitialSkips int `toml:"initial_skips"`

	MaxTxAttempts int `toml:"max_tx_attempts"`

	// LegacySessionOverwrite re-settles a session submitted twice with the
	// same id instead of acknowledging it as a duplicate.
	LegacySessionOverwrite bool `toml:"legacy_session_overwrite"`

	location *time.Location
}

// Location returns the civil time zone used for day keys. It falls back to UTC
// if the zone has not been loaded.
func (l LedgerConfigs) Location() *time.Location {
	if l.location == nil {
		return time.UTC
	}

	return l.location
}

// LoadLocation resolves TimeZone into a *time.Location.
func (l *LedgerConfigs) LoadLocation() error {
	loc, err := time.LoadLocation(l.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid ledger time zone %q: %w", l.TimeZone, err)
	}

	l.location = loc
	return nil
}

type FinalizerConfigs struct {
	Workers   int           `toml:"workers"`
	BatchSize int           `toml:"batch_size"`
	RunAt     time.Duration `toml:"run_at"`
	LockTTL   time.Duration `toml:"lock_ttl"`
}

// Default returns the configurations used when neither a config file nor an
// environment variable overrides a value.
func Default() Configs {
	return Configs{
		Env:      "local",
		LogLevel: "info",
		Database: DatabaseConfigs{
			Host:     "localhost",
			Port:     "3306",
			Database: "focus",
			User:     "mysql",
			Password: "mysql",
		},
		ApiServer: ServerConfigs{Port: "8080"},
		Auth: AuthConfigs{
			Method: "jwt",
			AccessToken: TokenConfigs{
				Name:       "access_token",
				Expiration: 24 * time.Hour,
			},
		},
		Kafka: KafkaConfigs{LedgerTopic: "ledger"},
		Ledger: LedgerConfigs{
			TimeZone:      "Asia/Bangkok",
			BonusWeekday:  time.Sunday,
			InitialSkips:  3,
			MaxTxAttempts: 5,
		},
		Finalizer: FinalizerConfigs{
			Workers:   8,
			BatchSize: 500,
			RunAt:     5 * time.Minute,
			LockTTL:   time.Hour,
		},
	}
}

// Load reads the TOML file at path on top of the default configurations. An
// empty path only applies the defaults.
func Load(path string) (Configs, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Configs{}, err
		}
	}

	return cfg, nil
}
