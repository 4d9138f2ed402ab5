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

package framework

import (
	"errors"
	"fmt"

	deep "github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sjwhitworth/golearn/base"

	logger "github.com/annbench/annbench/internal/ablog"
)

// GoDeepName is name of the go-deep framework.
const GoDeepName = "go-deep"

const (
	defaultSGDMomentum  = 0.1
	defaultWeightStdDev = 0.5
)

// goDeepFramework implements Framework interface backed by go-deep. The
// session carries the worker budget for the batch trainer; Start must run
// before Fit.
type goDeepFramework struct {
	iterations int
	batchSize  int
	workers    int
}

// NewGoDeep returns a new go-deep-backed Framework.
func NewGoDeep(iterations, batchSize int) Framework {
	return &goDeepFramework{
		iterations: iterations,
		batchSize:  batchSize,
	}
}

// Name returns the framework name.
func (g *goDeepFramework) Name() string {
	return GoDeepName
}

// Start resolves the worker budget, -1 meaning all logical cores.
func (g *goDeepFramework) Start(workers int) error {
	if workers == -1 {
		cores, err := cpu.Counts(true)
		if err != nil {
			return err
		}

		workers = cores
	}

	if workers < 1 {
		return fmt.Errorf("%s requires a positive worker budget, got %d", GoDeepName, workers)
	}

	g.workers = workers
	logger.Infof("%s session started with %d workers", GoDeepName, workers)
	return nil
}

// Fit trains a feed-forward network with two hidden layers of
// params.StructureSize units. Regularization maps to the SGD learning rate.
// With parallel set the batch trainer spreads batches over the session's
// worker budget, otherwise training runs on a single goroutine.
func (g *goDeepFramework) Fit(train base.FixedDataGrid, params Params, parallel bool) (Model, error) {
	if g.workers == 0 {
		return nil, fmt.Errorf("%s session not started", GoDeepName)
	}

	examples, levels, err := toExamples(train)
	if err != nil {
		return nil, err
	}

	net := deep.NewNeural(&deep.Config{
		Inputs:     len(examples[0].Input),
		Layout:     []int{params.StructureSize, params.StructureSize, len(levels)},
		Activation: deep.ActivationSigmoid,
		Mode:       deep.ModeMultiClass,
		Weight:     deep.NewNormal(defaultWeightStdDev, 0),
		Bias:       true,
	})

	solver := training.NewSGD(params.Regularization, defaultSGDMomentum, 0, false)
	var trainer training.Trainer
	if parallel {
		trainer = training.NewBatchTrainer(solver, 0, g.batchSize, g.workers)
	} else {
		trainer = training.NewTrainer(solver, 0)
	}

	trainer.Train(net, examples, nil, g.iterations)
	return &goDeepModel{
		net:    net,
		levels: levels,
	}, nil
}

// Shutdown releases the session.
func (g *goDeepFramework) Shutdown() error {
	g.workers = 0
	return nil
}

// toExamples converts golearn instances into go-deep training examples with
// one-hot responses, and returns the class levels backing the encoding.
func toExamples(grid base.FixedDataGrid) (training.Examples, []string, error) {
	levels := classLevels(grid)
	if len(levels) < 2 {
		return nil, nil, errors.New("training instances need a categorical label with at least two levels")
	}

	index := make(map[string]int, len(levels))
	for i, level := range levels {
		index[level] = i
	}

	specs, err := featureSpecs(grid)
	if err != nil {
		return nil, nil, err
	}

	_, rows := grid.Size()
	if rows == 0 {
		return nil, nil, errors.New("training instances are empty")
	}

	examples := make(training.Examples, 0, rows)
	for i := 0; i < rows; i++ {
		class, ok := index[base.GetClass(grid, i)]
		if !ok {
			return nil, nil, fmt.Errorf("row %d has unknown label %q", i, base.GetClass(grid, i))
		}

		response := make([]float64, len(levels))
		response[class] = 1

		examples = append(examples, training.Example{
			Input:    featureRow(grid, specs, i),
			Response: response,
		})
	}

	return examples, levels, nil
}

// goDeepModel implements Model interface.
type goDeepModel struct {
	net    *deep.Neural
	levels []string
}

// Predict classifies every row of the grid by the highest output activation.
func (m *goDeepModel) Predict(grid base.FixedDataGrid) (base.FixedDataGrid, error) {
	specs, err := featureSpecs(grid)
	if err != nil {
		return nil, err
	}

	pred := base.GeneratePredictionVector(grid)
	_, rows := grid.Size()
	for i := 0; i < rows; i++ {
		outputs := m.net.Predict(featureRow(grid, specs, i))

		best := 0
		for j := range outputs {
			if outputs[j] > outputs[best] {
				best = j
			}
		}

		base.SetClass(pred, i, m.levels[best])
	}

	return pred, nil
}
