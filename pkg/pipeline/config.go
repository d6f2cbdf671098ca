package pipeline

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/rich1707/Titanic/pkg/model"
)

// Config drives one pipeline run. Zero values are filled from Default.
type Config struct {
	DataPath     string            `yaml:"data_path"`
	Seed         int64             `yaml:"seed"`
	EvalRatio    float64           `yaml:"eval_ratio"`
	CVFolds      int               `yaml:"cv_folds"`
	SearchBudget int               `yaml:"search_budget"`
	Search       model.SearchSpace `yaml:"search"`
}

// Default returns the reference configuration: 0.7/0.3 split, 5-fold CV,
// and a modest forest search space.
func Default() Config {
	return Config{
		DataPath:     "data/train.csv",
		Seed:         42,
		EvalRatio:    0.3,
		CVFolds:      5,
		SearchBudget: 20,
		Search: model.SearchSpace{
			NEstimators:     []int{100, 200, 400},
			MaxDepth:        []int{3, 5, 7, 0},
			MinSamplesSplit: []int{2, 5, 10},
			MaxFeatures:     []int{0, 3, 5},
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "pipeline: read config")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrap(err, "pipeline: parse config")
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the run cannot honor.
func (c Config) Validate() error {
	if c.EvalRatio <= 0 || c.EvalRatio >= 1 {
		return errors.Newf("pipeline: eval ratio %v outside (0,1)", c.EvalRatio)
	}
	if c.CVFolds < 2 {
		return errors.Newf("pipeline: cv folds %d", c.CVFolds)
	}
	if c.SearchBudget < 1 {
		return errors.Newf("pipeline: search budget %d", c.SearchBudget)
	}
	return nil
}
