package support

import (
	"errors"
	"os"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/weegigs/wee-store-go/journal"
)

const ConfigEnvironment = "WS_CONFIG"

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Journal   journal.Config  `yaml:"journal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
	// RateLimit is the sustained number of dispatches per second accepted over
	// HTTP. Zero disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

type TelemetryConfig struct {
	// Exporter is one of none, console, otlp, honeycomb or jaeger.
	Exporter string            `yaml:"exporter"`
	Endpoint string            `yaml:"endpoint"`
	Headers  map[string]string `yaml:"headers"`
	Team     string            `yaml:"team"`
	Dataset  string            `yaml:"dataset"`
	Service  string            `yaml:"service"`
}

func DefaultConfig() Config {
	return Config{
		HTTP:      HTTPConfig{Address: ":9080", Burst: 10},
		Log:       LogConfig{Level: "info"},
		Journal:   journal.Config{Backend: journal.BackendMemory},
		Telemetry: TelemetryConfig{Exporter: "none", Service: "wee-store"},
	}
}

// LoadConfig reads the file named by WS_CONFIG, if any, over the defaults and
// then applies environment overrides.
func LoadConfig() (Config, error) {
	return LoadConfigFile(os.Getenv(ConfigEnvironment))
}

func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, pkgerrors.Wrap(err, "read config file")
		}

		if err == nil {
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return cfg, pkgerrors.Wrap(err, "parse config yaml")
			}
		}
	}

	if err := applyEnvironment(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnvironment(cfg *Config) error {
	setString(&cfg.HTTP.Address, "WS_HTTP_ADDRESS")
	setString(&cfg.Log.Level, "WS_LOG_LEVEL")
	setString(&cfg.Journal.Backend, "WS_JOURNAL_BACKEND")
	setString(&cfg.Journal.Table, "DYNAMODB_JOURNAL_TABLE_NAME")
	setString(&cfg.Journal.Endpoint, "WS_JOURNAL_ENDPOINT")
	setString(&cfg.Telemetry.Exporter, "WS_TELEMETRY_EXPORTER")
	setString(&cfg.Telemetry.Endpoint, "WS_TELEMETRY_ENDPOINT")

	if value, ok := os.LookupEnv("WS_LOG_PRETTY"); ok {
		pretty, err := strconv.ParseBool(value)
		if err != nil {
			return pkgerrors.Wrap(err, "WS_LOG_PRETTY")
		}
		cfg.Log.Pretty = pretty
	}

	if value, ok := os.LookupEnv("WS_HTTP_RATE_LIMIT"); ok {
		limit, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return pkgerrors.Wrap(err, "WS_HTTP_RATE_LIMIT")
		}
		cfg.HTTP.RateLimit = limit
	}

	return nil
}

func setString(target *string, name string) {
	if value, ok := os.LookupEnv(name); ok && value != "" {
		*target = value
	}
}
