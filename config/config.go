package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"restaurant-api/models"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"
)

const envPrefix = "RESTO_"

type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	DB       DBConfig       `koanf:"db"`
	Auth     AuthConfig     `koanf:"auth"`
	Billing  BillingConfig  `koanf:"billing"`
	NATS     NATSConfig     `koanf:"nats"`
	AMQP     AMQPConfig     `koanf:"amqp"`
	Log      LogConfig      `koanf:"log"`
	Realtime RealtimeConfig `koanf:"realtime"`
}

type HTTPConfig struct {
	Port string `koanf:"port"`
	Mode string `koanf:"mode"`
}

type DBConfig struct {
	Driver string `koanf:"driver"` // sqlite or postgres
	DSN    string `koanf:"dsn"`
}

type AuthConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
	// SelfRegister lists the roles open to public sign-up, comma separated.
	// Other roles are created by a manager.
	SelfRegister string `koanf:"selfregister"`
}

type BillingConfig struct {
	TaxRate     string `koanf:"taxrate"`
	ServiceRate string `koanf:"servicerate"`
}

type NATSConfig struct {
	URL string `koanf:"url"`
}

type AMQPConfig struct {
	URL      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type RealtimeConfig struct {
	Buffer int `koanf:"buffer"`
}

var defaults = map[string]any{
	"http.port":           "8080",
	"http.mode":           "debug",
	"db.driver":           "sqlite",
	"db.dsn":              "restaurant.db",
	"auth.secret":         "restaurant_super_secret_2024",
	"auth.ttl":            "12h",
	"auth.selfregister":   "waiter,chef",
	"billing.taxrate":     "0.10",
	"billing.servicerate": "0",
	"amqp.exchange":       "restaurant.events",
	"log.level":           "info",
	"realtime.buffer":     64,
}

// Load merges defaults, an optional YAML file and RESTO_* environment
// variables, later sources winning. RESTO_DB_DSN maps to db.dsn.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("db.driver must be sqlite or postgres, got %q", c.DB.Driver)
	}
	switch c.HTTP.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("http.mode must be debug, release or test, got %q", c.HTTP.Mode)
	}
	if _, err := c.Billing.Rates(); err != nil {
		return err
	}
	if _, err := c.Auth.SelfRegisterRoles(); err != nil {
		return err
	}
	if c.Realtime.Buffer <= 0 {
		return fmt.Errorf("realtime.buffer must be positive")
	}
	return nil
}

// Rates holds the parsed billing percentages as fractions (0.10 = 10%).
type Rates struct {
	Tax     decimal.Decimal
	Service decimal.Decimal
}

func (b BillingConfig) Rates() (Rates, error) {
	tax, err := decimal.NewFromString(b.TaxRate)
	if err != nil {
		return Rates{}, fmt.Errorf("billing.taxrate: %w", err)
	}
	svc, err := decimal.NewFromString(b.ServiceRate)
	if err != nil {
		return Rates{}, fmt.Errorf("billing.servicerate: %w", err)
	}
	if tax.IsNegative() || svc.IsNegative() {
		return Rates{}, fmt.Errorf("billing rates must not be negative")
	}
	return Rates{Tax: tax, Service: svc}, nil
}

// SelfRegisterRoles parses auth.selfregister. An empty value closes public
// sign-up except for the first account.
func (a AuthConfig) SelfRegisterRoles() ([]models.StaffRole, error) {
	var roles []models.StaffRole
	for _, part := range strings.Split(a.SelfRegister, ",") {
		role := models.StaffRole(strings.TrimSpace(part))
		if role == "" {
			continue
		}
		if !role.Valid() {
			return nil, fmt.Errorf("auth.selfregister: unknown role %q", role)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
