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
	"fmt"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/neural"

	logger "github.com/annbench/annbench/internal/ablog"
)

// GolearnName is name of the golearn framework.
const GolearnName = "golearn"

// golearnFramework implements Framework interface backed by golearn's
// multi-layer network. The library trains on a single goroutine, so the
// parallel flag and the worker budget are accepted but have no effect.
type golearnFramework struct {
	iterations int
}

// NewGolearn returns a new golearn-backed Framework.
func NewGolearn(iterations int) Framework {
	return &golearnFramework{
		iterations: iterations,
	}
}

// Name returns the framework name.
func (g *golearnFramework) Name() string {
	return GolearnName
}

// Start is a no-op, golearn has no session state.
func (g *golearnFramework) Start(workers int) error {
	logger.Infof("%s framework is single-threaded, worker budget %d has no effect", GolearnName, workers)
	return nil
}

// Fit trains a multi-layer network with one hidden layer of
// params.StructureSize units. Regularization maps to the learning rate,
// the only update-tempering knob the network exposes. The library panics
// instead of returning errors, the recover turns that into a fit error.
func (g *golearnFramework) Fit(train base.FixedDataGrid, params Params, parallel bool) (model Model, err error) {
	defer func() {
		if r := recover(); r != nil {
			model, err = nil, fmt.Errorf("%s fit: %v", GolearnName, r)
		}
	}()

	net := neural.NewMultiLayerNet([]int{params.StructureSize})
	net.MaxIterations = g.iterations
	net.LearningRate = params.Regularization
	net.Fit(train)

	return &golearnModel{net: net}, nil
}

// Shutdown is a no-op, golearn has no session state.
func (g *golearnFramework) Shutdown() error {
	return nil
}

// golearnModel implements Model interface.
type golearnModel struct {
	net *neural.MultiLayerNet
}

// Predict classifies every row of the grid.
func (m *golearnModel) Predict(grid base.FixedDataGrid) (pred base.FixedDataGrid, err error) {
	defer func() {
		if r := recover(); r != nil {
			pred, err = nil, fmt.Errorf("%s predict: %v", GolearnName, r)
		}
	}()

	return m.net.Predict(grid), nil
}
