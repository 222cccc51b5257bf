// Package config holds every recognised option of the auditor. Components
// receive the parts they need through their constructors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderLangchain  = "langchain"
	ProviderGemini     = "gemini"
)

type Config struct {
	// Base directory for computed tables and results.
	OutputDir string `envconfig:"OUT_DIR" yaml:"output_dir"`

	Inputs InputConfig  `yaml:"inputs"`
	LLM    LLMConfig    `yaml:"llm"`
	Digest DigestConfig `yaml:"digest"`
	Log    LogConfig    `yaml:"log"`
	Serve  ServeConfig  `yaml:"serve"`
}

// InputConfig locates the model evaluator's outputs.
type InputConfig struct {
	Predictions string `envconfig:"PREDICTIONS_CSV" yaml:"predictions"`
	Metrics     string `envconfig:"METRICS_JSON" yaml:"metrics"`
	// Empty table paths resolve under OutputDir.
	RaceTable string `envconfig:"FAIRNESS_RACE" yaml:"race_table"`
	SexTable  string `envconfig:"FAIRNESS_SEX" yaml:"sex_table"`

	TrueLabelColumn string `envconfig:"TRUE_LABEL_COLUMN" yaml:"true_label_column"`
	PredLabelColumn string `envconfig:"PRED_LABEL_COLUMN" yaml:"pred_label_column"`
	RaceColumn      string `envconfig:"RACE_COLUMN" yaml:"race_column"`
	SexColumn       string `envconfig:"SEX_COLUMN" yaml:"sex_column"`
}

type LLMConfig struct {
	Provider    string        `envconfig:"LLM_PROVIDER" yaml:"provider"`
	Model       string        `envconfig:"LLM_MODEL" yaml:"model"`
	BaseURL     string        `envconfig:"LLM_BASE_URL" yaml:"base_url"`
	Timeout     time.Duration `envconfig:"LLM_TIMEOUT" yaml:"timeout"`
	Temperature float32       `envconfig:"LLM_TEMPERATURE" yaml:"temperature"`
}

type DigestConfig struct {
	TopK           int  `envconfig:"DIGEST_TOP_K" yaml:"top_k"`
	GroundingCheck bool `envconfig:"GROUNDING_CHECK" yaml:"grounding_check"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" yaml:"level"`
	Dir   string `envconfig:"LOG_DIR" yaml:"dir"`
}

type ServeConfig struct {
	Addr string `envconfig:"SERVE_ADDR" yaml:"addr"`
}

// Load applies defaults, then the YAML file at configPath if given, then
// environment variables.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Default() *Config {
	return &Config{
		OutputDir: "outputs",
		Inputs: InputConfig{
			Predictions:     "outputs/predictions.csv",
			Metrics:         "outputs/metrics.json",
			TrueLabelColumn: "y_true",
			PredLabelColumn: "y_pred",
			RaceColumn:      "race",
			SexColumn:       "sex",
		},
		LLM: LLMConfig{
			Provider:    ProviderOpenRouter,
			Model:       "gpt-4.1-mini",
			Timeout:     2 * time.Minute,
			Temperature: 0,
		},
		Digest: DigestConfig{
			TopK: 6,
		},
		Log: LogConfig{
			Level: "info",
			Dir:   "log",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}

func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, "output_dir must not be empty")
	}

	validProviders := map[string]bool{ProviderOpenRouter: true, ProviderLangchain: true, ProviderGemini: true}
	if !validProviders[c.LLM.Provider] {
		errs = append(errs, fmt.Sprintf("invalid llm provider: %s (must be openrouter, langchain, or gemini)", c.LLM.Provider))
	}

	if strings.TrimSpace(c.LLM.Model) == "" {
		errs = append(errs, "llm model must not be empty")
	}

	if c.LLM.Timeout <= 0 {
		errs = append(errs, "llm timeout must be positive")
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, "llm temperature must be between 0 and 2")
	}

	if c.Digest.TopK < 1 {
		errs = append(errs, "digest top_k must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}

	for name, col := range map[string]string{
		"true_label_column": c.Inputs.TrueLabelColumn,
		"pred_label_column": c.Inputs.PredLabelColumn,
		"race_column":       c.Inputs.RaceColumn,
		"sex_column":        c.Inputs.SexColumn,
	} {
		if strings.TrimSpace(col) == "" {
			errs = append(errs, name+" must not be empty")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) RaceTablePath() string {
	if c.Inputs.RaceTable != "" {
		return c.Inputs.RaceTable
	}
	return filepath.Join(c.OutputDir, "fairness_by_race.csv")
}

func (c *Config) SexTablePath() string {
	if c.Inputs.SexTable != "" {
		return c.Inputs.SexTable
	}
	return filepath.Join(c.OutputDir, "fairness_by_sex.csv")
}

func (c *Config) ResultsDir() string {
	return filepath.Join(c.OutputDir, "results")
}

// ReportsDir holds the four agent reports.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.ResultsDir(), "agents")
}

func (c *Config) ArtifactsDir() string {
	return filepath.Join(c.ResultsDir(), "artifacts")
}
