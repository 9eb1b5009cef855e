package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel     string        `json:"log_level" yaml:"log_level"`
	LogFile      string        `json:"log_file" yaml:"log_file"`
	Data         DataConfig    `json:"data" yaml:"data"`
	Dataset      DatasetConfig `json:"dataset" yaml:"dataset"`
	Balance      BalanceConfig `json:"balance" yaml:"balance"`
	Split        SplitConfig   `json:"split" yaml:"split"`
	Output       OutputConfig  `json:"output" yaml:"output"`
	Storage      StorageConfig `json:"storage" yaml:"storage"`
	SkipLogLimit int           `json:"skip_log_limit" yaml:"skip_log_limit"`
}

type DataConfig struct {
	Source      string      `json:"source" yaml:"source"`
	Path        string      `json:"path" yaml:"path"`
	BaseDir     string      `json:"base_dir" yaml:"base_dir"`
	Year        int         `json:"year" yaml:"year"`
	Quarters    int         `json:"quarters" yaml:"quarters"`
	MaxFiles    int         `json:"max_files" yaml:"max_files"`
	ModelFilter string      `json:"model_filter" yaml:"model_filter"`
	S3          S3Config    `json:"s3" yaml:"s3"`
	Kafka       KafkaConfig `json:"kafka" yaml:"kafka"`
}

type S3Config struct {
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	Bucket    string `json:"bucket" yaml:"bucket"`
	Prefix    string `json:"prefix" yaml:"prefix"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	UseSSL    bool   `json:"use_ssl" yaml:"use_ssl"`
}

type KafkaConfig struct {
	Brokers    []string `json:"brokers" yaml:"brokers"`
	Topic      string   `json:"topic" yaml:"topic"`
	GroupID    string   `json:"group_id" yaml:"group_id"`
	MaxRecords int      `json:"max_records" yaml:"max_records"`
}

type DatasetConfig struct {
	SequenceLength   int `json:"sequence_length" yaml:"sequence_length"`
	Lookahead        int `json:"lookahead" yaml:"lookahead"`
	NumNormalSerials int `json:"num_normal_serials" yaml:"num_normal_serials"`
	Workers          int `json:"workers" yaml:"workers"`
}

type BalanceConfig struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Ratio   float64 `json:"ratio" yaml:"ratio"`
	Seed    int64   `json:"seed" yaml:"seed"`
}

type SplitConfig struct {
	Enabled      bool    `json:"enabled" yaml:"enabled"`
	TestFraction float64 `json:"test_fraction" yaml:"test_fraction"`
	Seed         int64   `json:"seed" yaml:"seed"`
}

type OutputConfig struct {
	Format     string `json:"format" yaml:"format"`
	Path       string `json:"path" yaml:"path"`
	ReportPath string `json:"report_path" yaml:"report_path"`
}

type StorageConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Driver  string `json:"driver" yaml:"driver"`
	DSN     string `json:"dsn" yaml:"dsn"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Data: DataConfig{
			Source:   "file",
			BaseDir:  "./data",
			Year:     2017,
			Quarters: 1,
			Kafka:    KafkaConfig{MaxRecords: 1000000},
		},
		Dataset: DatasetConfig{
			SequenceLength:   30,
			Lookahead:        7,
			NumNormalSerials: 100,
			Workers:          0,
		},
		Balance:      BalanceConfig{Enabled: false, Ratio: 1.2, Seed: 42},
		Split:        SplitConfig{Enabled: false, TestFraction: 0.2, Seed: 42},
		Output:       OutputConfig{Format: "csv", Path: "dataset.csv"},
		Storage:      StorageConfig{Enabled: false, Driver: "sqlite", DSN: "file:driveseq.db?_pragma=busy_timeout(5000)"},
		SkipLogLimit: 1000,
	}
}

func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()

	trimmed := strings.TrimSpace(string(content))
	if len(trimmed) == 0 {
		return nil, errors.New("config file is empty")
	}
	var decodeErr error
	if looksLikeJSON(trimmed) {
		decodeErr = json.Unmarshal([]byte(trimmed), cfg)
	} else {
		decodeErr = yaml.Unmarshal([]byte(trimmed), cfg)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	applyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func looksLikeJSON(s string) bool {
	for _, ch := range s {
		if ch == '{' || ch == '[' {
			return true
		}
		if ch > ' ' {
			return false
		}
	}
	return false
}

func applyDefaults(cfg *Config) {
	if cfg.Data.Source == "" {
		cfg.Data.Source = "file"
	}
	if cfg.Data.BaseDir == "" {
		cfg.Data.BaseDir = "./data"
	}
	if cfg.Data.Quarters <= 0 {
		cfg.Data.Quarters = 1
	}
	if cfg.Data.Kafka.MaxRecords <= 0 {
		cfg.Data.Kafka.MaxRecords = 1000000
	}
	if cfg.Balance.Ratio <= 0 {
		cfg.Balance.Ratio = 1.2
	}
	if cfg.Split.TestFraction <= 0 {
		cfg.Split.TestFraction = 0.2
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "csv"
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "dataset.csv"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "sqlite"
	}
	if cfg.SkipLogLimit <= 0 {
		cfg.SkipLogLimit = 1000
	}
}

func Validate(cfg *Config) error {
	if cfg.Dataset.SequenceLength < 1 {
		return errors.New("dataset.sequence_length must be >= 1")
	}
	if cfg.Dataset.Lookahead < 0 {
		return errors.New("dataset.lookahead must be >= 0")
	}
	if cfg.Dataset.NumNormalSerials < 1 {
		return errors.New("dataset.num_normal_serials must be >= 1")
	}
	if cfg.Dataset.Workers < 0 {
		return errors.New("dataset.workers must be >= 0")
	}
	switch cfg.Data.Source {
	case "file":
		if cfg.Data.Path == "" && cfg.Data.BaseDir == "" {
			return errors.New("data.path or data.base_dir required when data.source is file")
		}
		if cfg.Data.Path == "" && cfg.Data.Year <= 0 {
			return errors.New("data.year required when loading from data.base_dir")
		}
	case "s3":
		if cfg.Data.S3.Endpoint == "" || cfg.Data.S3.Bucket == "" {
			return errors.New("data.s3 requires endpoint and bucket")
		}
	case "kafka":
		if len(cfg.Data.Kafka.Brokers) == 0 || cfg.Data.Kafka.Topic == "" || cfg.Data.Kafka.GroupID == "" {
			return errors.New("data.kafka requires brokers, topic, group_id")
		}
	default:
		return fmt.Errorf("unsupported data.source: %q", cfg.Data.Source)
	}
	if cfg.Balance.Enabled && cfg.Balance.Ratio <= 0 {
		return errors.New("balance.ratio must be > 0")
	}
	if cfg.Split.Enabled && (cfg.Split.TestFraction <= 0 || cfg.Split.TestFraction >= 1) {
		return errors.New("split.test_fraction must be in (0, 1)")
	}
	switch cfg.Output.Format {
	case "csv", "jsonl":
	default:
		return fmt.Errorf("unsupported output.format: %q", cfg.Output.Format)
	}
	if cfg.Storage.Enabled {
		switch strings.ToLower(cfg.Storage.Driver) {
		case "sqlite", "postgres", "postgresql":
		default:
			return fmt.Errorf("unsupported storage.driver: %q", cfg.Storage.Driver)
		}
	}
	return nil
}

func ResolvePath(path string) string {
	if path == "" {
		return path
	}
	if filepath.IsAbs(path) {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	return filepath.Join(cwd, path)
}
