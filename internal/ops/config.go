package ops

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"orderaccumulator/internal/og"
	"orderaccumulator/internal/risk"
	"orderaccumulator/pkg/exception"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFixSettings     = "fix/acceptor.cfg"
	DefaultJournalCapacity = 4096
)

const (
	envSymbols         = "ACCUMULATOR_SYMBOLS"
	envExposureLimit   = "ACCUMULATOR_EXPOSURE_LIMIT"
	envFixSettings     = "ACCUMULATOR_FIX_SETTINGS"
	envFixVerbose      = "ACCUMULATOR_FIX_VERBOSE"
	envJournalCapacity = "ACCUMULATOR_JOURNAL_CAPACITY"
	envPyroscopeAddr   = "ACCUMULATOR_PYROSCOPE_ADDR"
)

// FileConfig mirrors the JSON and YAML config layout.
type FileConfig struct {
	Risk      RiskConfig      `json:"risk" yaml:"risk"`
	Fix       FixConfig       `json:"fix" yaml:"fix"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Profiling ProfilingConfig `json:"profiling" yaml:"profiling"`
}

// RiskConfig lists the tradable symbols and the per-symbol exposure limit.
// The limit is a decimal string so it is never rounded through a float.
type RiskConfig struct {
	Symbols       []string `json:"symbols" yaml:"symbols"`
	ExposureLimit string   `json:"exposureLimit" yaml:"exposure_limit"`
}

type FixConfig struct {
	Settings string `json:"settings" yaml:"settings"`
	Verbose  bool   `json:"verbose" yaml:"verbose"`
}

type JournalConfig struct {
	Capacity int `json:"capacity" yaml:"capacity"`
}

type ProfilingConfig struct {
	PyroscopeAddr string `json:"pyroscopeAddr" yaml:"pyroscope_addr"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Risk            risk.Config
	Acceptor        og.AcceptorConfig
	JournalCapacity int
	PyroscopeAddr   string
}

const defaultDotEnv = ".env"

// LoadDotEnv loads variables from an env file without overriding the ones
// already set. An empty path tries ./.env and only skips it when missing.
func LoadDotEnv(path string) error {
	if path == "" {
		path = defaultDotEnv
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil
		}
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load env file %s", path)
	}
	return nil
}

// Load reads the config file at path, applies environment overrides and
// resolves defaults. An empty path starts from the defaults.
func Load(path string) (Loaded, error) {
	var cfg FileConfig
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Loaded{}, err
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Loaded{}, err
	}
	return resolve(cfg)
}

func decodeFile(path string, cfg *FileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := sonic.Unmarshal(data, cfg); err != nil {
			return errors.Wrapf(err, "decode json config %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return errors.Wrapf(err, "decode yaml config %s", path)
		}
	default:
		return errors.Wrapf(exception.ErrConfigUnsupportedFormat, "path: %s", path)
	}
	return nil
}

func applyEnvOverrides(cfg *FileConfig) error {
	if v := os.Getenv(envSymbols); v != "" {
		cfg.Risk.Symbols = splitList(v)
	}
	if v := os.Getenv(envExposureLimit); v != "" {
		cfg.Risk.ExposureLimit = v
	}
	if v := os.Getenv(envFixSettings); v != "" {
		cfg.Fix.Settings = v
	}
	if v := os.Getenv(envFixVerbose); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(exception.ErrConfigInvalidValue, "%s: %s", envFixVerbose, v)
		}
		cfg.Fix.Verbose = verbose
	}
	if v := os.Getenv(envJournalCapacity); v != "" {
		capacity, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(exception.ErrConfigInvalidValue, "%s: %s", envJournalCapacity, v)
		}
		cfg.Journal.Capacity = capacity
	}
	if v := os.Getenv(envPyroscopeAddr); v != "" {
		cfg.Profiling.PyroscopeAddr = v
	}
	return nil
}

func resolve(cfg FileConfig) (Loaded, error) {
	riskCfg := risk.DefaultConfig()

	symbols := lo.Filter(lo.Map(cfg.Risk.Symbols, func(s string, _ int) string {
		return strings.TrimSpace(s)
	}), func(s string, _ int) bool {
		return s != ""
	})
	if len(symbols) != 0 {
		riskCfg.Symbols = symbols
	}

	if cfg.Risk.ExposureLimit != "" {
		limit, err := decimal.NewFromString(strings.TrimSpace(cfg.Risk.ExposureLimit))
		if err != nil {
			return Loaded{}, errors.Wrapf(exception.ErrConfigInvalidLimit, "limit: %s", cfg.Risk.ExposureLimit)
		}
		riskCfg.ExposureLimit = limit
	}
	if !riskCfg.ExposureLimit.IsPositive() {
		return Loaded{}, errors.Wrapf(exception.ErrConfigInvalidLimit, "limit must be > 0, got %s", riskCfg.ExposureLimit)
	}

	if cfg.Journal.Capacity < 0 {
		return Loaded{}, errors.Wrapf(exception.ErrConfigInvalidValue, "journal capacity: %d", cfg.Journal.Capacity)
	}
	capacity := cfg.Journal.Capacity
	if capacity == 0 {
		capacity = DefaultJournalCapacity
	}

	settings := cfg.Fix.Settings
	if settings == "" {
		settings = DefaultFixSettings
	}

	return Loaded{
		Risk: riskCfg,
		Acceptor: og.AcceptorConfig{
			SettingsPath: settings,
			Verbose:      cfg.Fix.Verbose,
		},
		JournalCapacity: capacity,
		PyroscopeAddr:   cfg.Profiling.PyroscopeAddr,
	}, nil
}

func splitList(v string) []string {
	return strings.Split(v, ",")
}
