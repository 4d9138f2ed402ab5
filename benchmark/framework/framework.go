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
	"github.com/sjwhitworth/golearn/base"
)

// Params is the framework-independent hyperparameter vector. Each adapter
// maps the fields onto its own knobs at the call boundary.
type Params struct {
	// StructureSize is the width of the hidden layers.
	StructureSize int

	// Regularization tempers the weight updates; what it binds to is
	// framework specific.
	Regularization float64
}

// DefaultParams returns the hyperparameters used when no search is performed.
func DefaultParams() Params {
	return Params{
		StructureSize:  10,
		Regularization: 0.1,
	}
}

// Grid enumerates the cartesian product of the candidate values, in stable
// order.
func Grid(structureSizes []int, regularizations []float64) []Params {
	grid := make([]Params, 0, len(structureSizes)*len(regularizations))
	for _, size := range structureSizes {
		for _, reg := range regularizations {
			grid = append(grid, Params{
				StructureSize:  size,
				Regularization: reg,
			})
		}
	}

	return grid
}

// Model is a fitted classifier.
type Model interface {
	// Predict classifies every row of the grid and returns the generated
	// predictions.
	Predict(base.FixedDataGrid) (base.FixedDataGrid, error)
}

// Framework is the narrow contract both ML libraries are reached through.
type Framework interface {
	// Name returns the framework name used in results and reports.
	Name() string

	// Start initializes the framework session with a worker budget,
	// -1 meaning all logical cores. Must be called before Fit.
	Start(workers int) error

	// Fit trains a classifier on the given instances. The parallel flag
	// enables the framework's internal parallelism where the framework
	// supports it. Fitting errors are final, the caller does not retry.
	Fit(train base.FixedDataGrid, params Params, parallel bool) (Model, error)

	// Shutdown releases the framework session.
	Shutdown() error
}

// classLevels returns the categorical levels of the single class attribute.
func classLevels(grid base.FixedDataGrid) []string {
	classAttrs := grid.AllClassAttributes()
	if len(classAttrs) != 1 {
		return nil
	}

	classAttr, ok := classAttrs[0].(*base.CategoricalAttribute)
	if !ok {
		return nil
	}

	return classAttr.GetValues()
}

// featureSpecs resolves the non-class attribute specs of the grid, in
// attribute order.
func featureSpecs(grid base.FixedDataGrid) ([]base.AttributeSpec, error) {
	classAttrs := grid.AllClassAttributes()
	specs := make([]base.AttributeSpec, 0, len(grid.AllAttributes()))
	for _, attr := range grid.AllAttributes() {
		isClass := false
		for _, c := range classAttrs {
			if attr.Equals(c) {
				isClass = true
				break
			}
		}
		if isClass {
			continue
		}

		spec, err := grid.GetAttribute(attr)
		if err != nil {
			return nil, err
		}

		specs = append(specs, spec)
	}

	return specs, nil
}

// featureRow unpacks one row's feature values.
func featureRow(grid base.FixedDataGrid, specs []base.AttributeSpec, row int) []float64 {
	values := make([]float64, len(specs))
	for j, spec := range specs {
		values[j] = base.UnpackBytesToFloat(grid.Get(spec, row))
	}

	return values
}
