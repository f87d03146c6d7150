package desempenho

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"git.sr.ht/~flobar/desempenho/pkg/desempenho/ml"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Default settings of a training run.
const (
	DefaultData     = "historicoAcademico.csv"
	DefaultTarget   = "Status_Final"
	DefaultModel    = "modelo_previsao_desempenho.joblib"
	DefaultTestSize = 0.2
	DefaultSeed     = 42
)

// Config defines the settings of a training run.
type Config struct {
	Data     string         `json:"data" toml:"data" yaml:"data"`
	Target   string         `json:"target" toml:"target" yaml:"target"`
	Model    string         `json:"model" toml:"model" yaml:"model"`
	TestSize float64        `json:"testSize" toml:"testSize" yaml:"testSize"`
	Seed     int64          `json:"seed" toml:"seed" yaml:"seed"`
	Training TrainingConfig `json:"training" toml:"training" yaml:"training"`
}

// TrainingConfig holds the hyper parameters of the logistic
// regression.
type TrainingConfig struct {
	C       float64 `json:"c" toml:"c" yaml:"c"`
	MaxIter int     `json:"maxIter" toml:"maxIter" yaml:"maxIter"`
	Tol     float64 `json:"tol" toml:"tol" yaml:"tol"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data:     DefaultData,
		Target:   DefaultTarget,
		Model:    DefaultModel,
		TestSize: DefaultTestSize,
		Seed:     DefaultSeed,
		Training: TrainingConfig{
			C:       ml.DefaultC,
			MaxIter: ml.DefaultMaxIter,
			Tol:     ml.DefaultTol,
		},
	}
}

// ReadConfig reads the config from a json, toml or yaml file.  Values
// missing in the file keep their defaults.  If the name is empty, the
// default configuration is returned.  If name has the prefix '{' and
// the suffix '}' the name is interpreted as a json string.
func ReadConfig(name string) (*Config, error) {
	config := DefaultConfig()
	if name == "" {
		return config, nil
	}
	if strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}") {
		r := strings.NewReader(name)
		if err := json.NewDecoder(r).Decode(config); err != nil {
			return nil, fmt.Errorf("readConfig %s: %v", name, err)
		}
		return config, nil
	}
	is, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("readConfig %s: %v", name, err)
	}
	defer is.Close()
	switch {
	case strings.HasSuffix(name, ".toml"):
		if _, err := toml.NewDecoder(is).Decode(config); err != nil {
			return nil, fmt.Errorf("readConfig %s: %v", name, err)
		}
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		if err := yaml.NewDecoder(is).Decode(config); err != nil {
			return nil, fmt.Errorf("readConfig %s: %v", name, err)
		}
	default:
		if err := json.NewDecoder(is).Decode(config); err != nil {
			return nil, fmt.Errorf("readConfig %s: %v", name, err)
		}
	}
	return config, nil
}

// LR returns a new, unfitted logistic regression for the config.
func (c *Config) LR() *ml.LR {
	return &ml.LR{
		C:       c.Training.C,
		MaxIter: c.Training.MaxIter,
		Tol:     c.Training.Tol,
		Seed:    c.Seed,
	}
}
