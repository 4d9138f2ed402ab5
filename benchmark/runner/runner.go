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

package runner

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/evaluation"

	"github.com/annbench/annbench/benchmark/config"
	"github.com/annbench/annbench/benchmark/dataset"
	"github.com/annbench/annbench/benchmark/framework"
	logger "github.com/annbench/annbench/internal/ablog"
	"github.com/annbench/annbench/pkg/slices"
)

// Mode selects how a run picks its hyperparameters.
type Mode string

const (
	// ModeNone fits once with the default hyperparameters, internal
	// parallelism disabled.
	ModeNone = Mode("none")

	// ModeGrid evaluates the hyperparameter grid under k-fold
	// cross-validation and refits the best configuration, internal
	// parallelism enabled.
	ModeGrid = Mode("grid")
)

// Result records one benchmark run. Immutable after creation.
type Result struct {
	// ID is the unique run identifier.
	ID string

	// Framework is the framework name.
	Framework string

	// Mode is the search mode.
	Mode Mode

	// Elapsed is the wall-clock duration of the fit work only. In grid
	// mode it covers the cross-validated search and the final refit.
	Elapsed time.Duration

	// Params holds the fitted hyperparameters.
	Params framework.Params

	// Model is the fitted classifier.
	Model framework.Model
}

// Runner executes benchmark runs.
type Runner interface {
	// Run fits a classifier on the train instances in the given mode and
	// measures the wall-clock fit time. A fitting error aborts the run,
	// no retry, no fallback.
	Run(f framework.Framework, mode Mode, train *base.DenseInstances) (*Result, error)
}

// runner implements Runner interface.
type runner struct {
	config *config.SearchConfig
}

// New returns a new Runner.
func New(cfg *config.SearchConfig) Runner {
	return &runner{
		config: cfg,
	}
}

// Run fits a classifier and measures the fit time.
func (r *runner) Run(f framework.Framework, mode Mode, train *base.DenseInstances) (*Result, error) {
	result := &Result{
		ID:        uuid.NewString(),
		Framework: f.Name(),
		Mode:      mode,
	}

	log := logger.WithRun(result.ID, result.Framework, string(mode))
	log.Info("run started")

	switch mode {
	case ModeNone:
		result.Params = framework.DefaultParams()

		start := time.Now()
		model, err := f.Fit(train, result.Params, false)
		if err != nil {
			return nil, err
		}

		result.Elapsed = time.Since(start)
		result.Model = model
	case ModeGrid:
		candidates := r.candidates()

		start := time.Now()
		best, err := r.search(f, candidates, train)
		if err != nil {
			return nil, err
		}

		model, err := f.Fit(train, best, true)
		if err != nil {
			return nil, err
		}

		result.Elapsed = time.Since(start)
		result.Params = best
		result.Model = model
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}

	log.Infof("run finished in %s with params %+v", result.Elapsed, result.Params)
	return result, nil
}

// candidates enumerates the hyperparameter grid, dropping duplicate
// configurations. When the grid exceeds the model budget, a seeded shuffle
// picks which configurations get evaluated.
func (r *runner) candidates() []framework.Params {
	grid := slices.RemoveDuplicates(framework.Grid(r.config.StructureSizes, r.config.Regularizations))
	if r.config.MaxModels <= 0 || len(grid) <= r.config.MaxModels {
		return grid
	}

	rng := rand.New(rand.NewSource(r.config.Seed))
	rng.Shuffle(len(grid), func(i, j int) {
		grid[i], grid[j] = grid[j], grid[i]
	})

	return grid[:r.config.MaxModels]
}

// search cross-validates every candidate and returns the one with the best
// mean accuracy. Ties keep the earlier candidate.
func (r *runner) search(f framework.Framework, candidates []framework.Params, train *base.DenseInstances) (framework.Params, error) {
	if len(candidates) == 0 {
		return framework.Params{}, errors.New("hyperparameter search on empty grid")
	}

	folds, err := foldRows(train, r.config.Folds, r.config.Seed)
	if err != nil {
		return framework.Params{}, err
	}

	best, bestScore := candidates[0], -1.0
	for _, candidate := range candidates {
		score, err := r.crossValidate(f, candidate, train, folds)
		if err != nil {
			return framework.Params{}, err
		}

		logger.Debugf("%s candidate %+v scored %.4f", f.Name(), candidate, score)
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}

	return best, nil
}

// crossValidate fits the candidate on each fold complement and returns the
// mean holdout accuracy.
func (r *runner) crossValidate(f framework.Framework, candidate framework.Params, train *base.DenseInstances, folds [][]int) (float64, error) {
	scores := make([]float64, 0, len(folds))
	for k := range folds {
		var fitRows []int
		for i, fold := range folds {
			if i != k {
				fitRows = append(fitRows, fold...)
			}
		}

		fitSet, err := dataset.SelectRows(train, fitRows)
		if err != nil {
			return 0, err
		}

		holdout, err := dataset.SelectRows(train, folds[k])
		if err != nil {
			return 0, err
		}

		model, err := f.Fit(fitSet, candidate, true)
		if err != nil {
			return 0, err
		}

		pred, err := model.Predict(holdout)
		if err != nil {
			return 0, err
		}

		cm, err := evaluation.GetConfusionMatrix(holdout, pred)
		if err != nil {
			return 0, err
		}

		scores = append(scores, evaluation.GetAccuracy(cm))
	}

	return stats.Mean(scores)
}

// foldRows deals row indices into k folds after a seeded shuffle. Every fold
// must end up non-empty.
func foldRows(train *base.DenseInstances, k int, seed int64) ([][]int, error) {
	_, rows := train.Size()
	if k < 2 {
		return nil, fmt.Errorf("cross-validation requires at least 2 folds, got %d", k)
	}

	if rows < k {
		return nil, fmt.Errorf("cross-validation with %d folds needs at least %d rows, got %d", k, k, rows)
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(rows)

	folds := make([][]int, k)
	for i, row := range perm {
		folds[i%k] = append(folds[i%k], row)
	}

	return folds, nil
}
