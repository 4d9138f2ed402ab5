/*
 *     Copyright 2024 The Annbench Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
)

type Config struct {
	// Verbose enables debug level logging.
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`

	// Console writes logs to stderr instead of the log file.
	Console bool `yaml:"console" mapstructure:"console"`

	// WorkDir is base directory of run artifacts, logs and the dataset cache.
	WorkDir string `yaml:"workDir" mapstructure:"workDir"`

	// LogMaxSize is maximum size in megabytes of log files before rotation.
	LogMaxSize int `yaml:"logMaxSize" mapstructure:"logMaxSize"`

	// LogMaxAge is maximum number of days to retain old log files.
	LogMaxAge int `yaml:"logMaxAge" mapstructure:"logMaxAge"`

	// LogMaxBackups is maximum number of old log files to keep.
	LogMaxBackups int `yaml:"logMaxBackups" mapstructure:"logMaxBackups"`

	// Dataset configuration.
	Dataset DatasetConfig `yaml:"dataset" mapstructure:"dataset"`

	// Split configuration.
	Split SplitConfig `yaml:"split" mapstructure:"split"`

	// Search configuration.
	Search SearchConfig `yaml:"search" mapstructure:"search"`

	// Runner configuration.
	Runner RunnerConfig `yaml:"runner" mapstructure:"runner"`

	// Report configuration.
	Report ReportConfig `yaml:"report" mapstructure:"report"`
}

type DatasetConfig struct {
	// URL is location of the gzip-compressed, headerless CSV resource.
	URL string `yaml:"url" mapstructure:"url"`

	// FeatureCount is expected count of numeric feature columns, the label column follows them.
	FeatureCount int `yaml:"featureCount" mapstructure:"featureCount"`

	// SampleFraction is fraction of rows kept by uniform downsampling without replacement.
	SampleFraction float64 `yaml:"sampleFraction" mapstructure:"sampleFraction"`

	// SampleSeed seeds the downsampling draw.
	SampleSeed int64 `yaml:"sampleSeed" mapstructure:"sampleSeed"`
}

type SplitConfig struct {
	// Fraction is share of rows assigned to the train partition.
	Fraction float64 `yaml:"fraction" mapstructure:"fraction"`

	// Seed seeds the stratified draw, identical seeds produce identical partitions.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

type SearchConfig struct {
	// Folds is fold count of cross-validation in grid mode.
	Folds int `yaml:"folds" mapstructure:"folds"`

	// MaxModels caps the count of evaluated grid configurations,
	// candidates beyond the cap are dropped after a seeded shuffle.
	MaxModels int `yaml:"maxModels" mapstructure:"maxModels"`

	// Seed seeds the random-discrete candidate order.
	Seed int64 `yaml:"seed" mapstructure:"seed"`

	// StructureSizes is hidden-layer width candidates of the grid.
	StructureSizes []int `yaml:"structureSizes" mapstructure:"structureSizes"`

	// Regularizations is regularization-strength candidates of the grid.
	Regularizations []float64 `yaml:"regularizations" mapstructure:"regularizations"`
}

type RunnerConfig struct {
	// Workers is the framework-internal worker budget, -1 means all logical cores.
	Workers int `yaml:"workers" mapstructure:"workers"`

	// Iterations is count of fitting iterations per model.
	Iterations int `yaml:"iterations" mapstructure:"iterations"`

	// BatchSize is minibatch size of the parallel batch trainer.
	BatchSize int `yaml:"batchSize" mapstructure:"batchSize"`

	// Concurrent executes the four independent runs concurrently
	// instead of the default sequential order.
	Concurrent bool `yaml:"concurrent" mapstructure:"concurrent"`
}

type ReportConfig struct {
	// ChartFile is file name of the grouped bar chart, relative to WorkDir.
	ChartFile string `yaml:"chartFile" mapstructure:"chartFile"`

	// ResultsFile is file name of the results export, relative to WorkDir.
	ResultsFile string `yaml:"resultsFile" mapstructure:"resultsFile"`
}

// New default configuration.
func New() *Config {
	return &Config{
		WorkDir:       filepath.Join(os.TempDir(), "annbench"),
		LogMaxSize:    DefaultLogRotateMaxSize,
		LogMaxAge:     DefaultLogRotateMaxAge,
		LogMaxBackups: DefaultLogRotateMaxBackups,
		Dataset: DatasetConfig{
			URL:            DefaultDatasetURL,
			FeatureCount:   DefaultDatasetFeatureCount,
			SampleFraction: DefaultDatasetSampleFraction,
			SampleSeed:     DefaultDatasetSampleSeed,
		},
		Split: SplitConfig{
			Fraction: DefaultSplitFraction,
			Seed:     DefaultSplitSeed,
		},
		Search: SearchConfig{
			Folds:           DefaultSearchFolds,
			MaxModels:       DefaultSearchMaxModels,
			Seed:            DefaultSearchSeed,
			StructureSizes:  DefaultSearchStructureSizes,
			Regularizations: DefaultSearchRegularizations,
		},
		Runner: RunnerConfig{
			Workers:    DefaultRunnerWorkers,
			Iterations: DefaultRunnerIterations,
			BatchSize:  DefaultRunnerBatchSize,
		},
		Report: ReportConfig{
			ChartFile:   DefaultReportChartFile,
			ResultsFile: DefaultReportResultsFile,
		},
	}
}

// Validate config parameters.
func (cfg *Config) Validate() error {
	if cfg.WorkDir == "" {
		return errors.New("benchmark requires parameter workDir")
	}

	if cfg.Dataset.URL == "" {
		return errors.New("dataset requires parameter url")
	}

	if cfg.Dataset.FeatureCount <= 0 {
		return errors.New("dataset requires parameter featureCount")
	}

	if cfg.Dataset.SampleFraction <= 0 || cfg.Dataset.SampleFraction > 1 {
		return errors.New("dataset requires parameter sampleFraction in (0, 1]")
	}

	if cfg.Split.Fraction <= 0 || cfg.Split.Fraction >= 1 {
		return errors.New("split requires parameter fraction in (0, 1)")
	}

	if cfg.Search.Folds < 2 {
		return errors.New("search requires parameter folds >= 2")
	}

	if cfg.Search.MaxModels <= 0 {
		return errors.New("search requires parameter maxModels")
	}

	if len(cfg.Search.StructureSizes) == 0 {
		return errors.New("search requires parameter structureSizes")
	}

	if len(cfg.Search.Regularizations) == 0 {
		return errors.New("search requires parameter regularizations")
	}

	if cfg.Runner.Workers == 0 || cfg.Runner.Workers < -1 {
		return errors.New("runner requires parameter workers, positive or -1 for all cores")
	}

	if cfg.Runner.Iterations <= 0 {
		return errors.New("runner requires parameter iterations")
	}

	if cfg.Runner.BatchSize <= 0 {
		return errors.New("runner requires parameter batchSize")
	}

	if cfg.Report.ChartFile == "" {
		return errors.New("report requires parameter chartFile")
	}

	if cfg.Report.ResultsFile == "" {
		return errors.New("report requires parameter resultsFile")
	}

	return nil
}
