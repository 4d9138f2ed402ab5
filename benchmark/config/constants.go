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

const (
	// DefaultDatasetURL is default url of the covertype dataset archive.
	DefaultDatasetURL = "https://archive.ics.uci.edu/ml/machine-learning-databases/covtype/covtype.data.gz"

	// DefaultDatasetFeatureCount is default count of feature columns.
	DefaultDatasetFeatureCount = 54

	// DefaultDatasetSampleFraction is default downsampling fraction, 1/50th of the rows.
	DefaultDatasetSampleFraction = 0.02

	// DefaultDatasetSampleSeed is default seed of downsampling.
	DefaultDatasetSampleSeed = 123
)

const (
	// DefaultSplitFraction is default fraction of rows kept for training.
	DefaultSplitFraction = 0.8

	// DefaultSplitSeed is default seed of the stratified split.
	DefaultSplitSeed = 123
)

const (
	// DefaultSearchFolds is default fold count of cross-validation.
	DefaultSearchFolds = 5

	// DefaultSearchMaxModels is default cap of evaluated grid configurations.
	DefaultSearchMaxModels = 20

	// DefaultSearchSeed is default seed of the random-discrete candidate order.
	DefaultSearchSeed = 123
)

var (
	// DefaultSearchStructureSizes is default hidden-layer width candidates.
	DefaultSearchStructureSizes = []int{5, 10}

	// DefaultSearchRegularizations is default regularization-strength candidates.
	DefaultSearchRegularizations = []float64{0.1, 0.5}
)

const (
	// DefaultRunnerWorkers means use all logical cores for framework-internal parallelism.
	DefaultRunnerWorkers = -1

	// DefaultRunnerIterations is default count of fitting iterations per model.
	DefaultRunnerIterations = 100

	// DefaultRunnerBatchSize is default minibatch size of the batch trainer.
	DefaultRunnerBatchSize = 32
)

const (
	// DefaultReportChartFile is default file name of the grouped bar chart.
	DefaultReportChartFile = "training-time.png"

	// DefaultReportResultsFile is default file name of the results export.
	DefaultReportResultsFile = "results.csv"
)

const (
	// DefaultLogRotateMaxSize is default maximum size in megabytes of log files before rotation.
	DefaultLogRotateMaxSize = 100

	// DefaultLogRotateMaxAge is default number of days to retain old log files.
	DefaultLogRotateMaxAge = 7

	// DefaultLogRotateMaxBackups is default count of old log files to keep.
	DefaultLogRotateMaxBackups = 10
)
