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

package benchmark

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/evaluation"
	"golang.org/x/sync/errgroup"

	"github.com/annbench/annbench/benchmark/config"
	"github.com/annbench/annbench/benchmark/dataset"
	"github.com/annbench/annbench/benchmark/framework"
	"github.com/annbench/annbench/benchmark/report"
	"github.com/annbench/annbench/benchmark/runner"
	"github.com/annbench/annbench/benchmark/storage"
	logger "github.com/annbench/annbench/internal/ablog"
)

// Benchmark is the interface for the training-time comparison.
type Benchmark interface {
	// Run executes the full pipeline: load, preprocess, split, four
	// training runs, comparison artifacts.
	Run(context.Context) error
}

// benchmark implements Benchmark interface.
type benchmark struct {
	config   *config.Config
	storage  storage.Storage
	loader   dataset.Loader
	runner   runner.Runner
	tableOut io.Writer
}

// New returns a new Benchmark.
func New(cfg *config.Config) (Benchmark, error) {
	if err := os.MkdirAll(cfg.WorkDir, 0700); err != nil {
		return nil, err
	}

	s := storage.New(cfg.WorkDir, storage.WithResultsFileName(cfg.Report.ResultsFile))
	return &benchmark{
		config:   cfg,
		storage:  s,
		loader:   dataset.NewLoader(&cfg.Dataset, s),
		runner:   runner.New(&cfg.Search),
		tableOut: os.Stdout,
	}, nil
}

// Run executes the full pipeline.
func (b *benchmark) Run(ctx context.Context) error {
	if cores, err := cpu.Counts(true); err == nil {
		logger.Infof("host has %d logical cores, worker budget %d", cores, b.config.Runner.Workers)
	}

	sampled, err := b.loader.Load(ctx)
	if err != nil {
		return err
	}

	// Scaling statistics cover the full sampled dataset on purpose, the
	// split happens afterwards.
	if err := dataset.Standardize(sampled); err != nil {
		return err
	}

	instances, err := dataset.Categorize(sampled)
	if err != nil {
		return err
	}

	train, test, err := dataset.StratifiedSplit(instances, b.config.Split.Fraction, b.config.Split.Seed)
	if err != nil {
		return err
	}

	_, trainRows := train.Size()
	_, testRows := test.Size()
	logger.Infof("split dataset into %d train and %d test rows", trainRows, testRows)

	frameworks := []framework.Framework{
		framework.NewGolearn(b.config.Runner.Iterations),
		framework.NewGoDeep(b.config.Runner.Iterations, b.config.Runner.BatchSize),
	}

	for _, f := range frameworks {
		if err := f.Start(b.config.Runner.Workers); err != nil {
			return err
		}
		defer func(f framework.Framework) {
			if err := f.Shutdown(); err != nil {
				logger.Errorf("shutdown %s framework: %v", f.Name(), err)
			}
		}(f)
	}

	results, err := b.runAll(frameworks, train)
	if err != nil {
		return err
	}

	for _, result := range results {
		accuracy, err := holdoutAccuracy(result.Model, test)
		if err != nil {
			return err
		}

		logger.WithRun(result.ID, result.Framework, string(result.Mode)).Infof("holdout accuracy %.4f", accuracy)
	}

	if err := b.persist(results); err != nil {
		return err
	}

	return b.report(results)
}

// runAll executes the four runs, sequentially by default or concurrently
// when configured. Each run gets its own copy of the train partition, the
// runs share no mutable state.
func (b *benchmark) runAll(frameworks []framework.Framework, train *base.DenseInstances) ([]*runner.Result, error) {
	type job struct {
		framework framework.Framework
		mode      runner.Mode
	}

	var jobs []job
	for _, f := range frameworks {
		for _, mode := range []runner.Mode{runner.ModeNone, runner.ModeGrid} {
			jobs = append(jobs, job{framework: f, mode: mode})
		}
	}

	_, rows := train.Size()
	allRows := make([]int, rows)
	for i := range allRows {
		allRows[i] = i
	}

	results := make([]*runner.Result, len(jobs))
	if !b.config.Runner.Concurrent {
		for i, j := range jobs {
			copied, err := dataset.SelectRows(train, allRows)
			if err != nil {
				return nil, err
			}

			result, err := b.runner.Run(j.framework, j.mode, copied)
			if err != nil {
				return nil, err
			}

			results[i] = result
		}

		return results, nil
	}

	eg := errgroup.Group{}
	for i, j := range jobs {
		i, j := i, j
		copied, err := dataset.SelectRows(train, allRows)
		if err != nil {
			return nil, err
		}

		eg.Go(func() error {
			result, err := b.runner.Run(j.framework, j.mode, copied)
			if err != nil {
				return err
			}

			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// persist appends the run results to the results csv file.
func (b *benchmark) persist(results []*runner.Result) error {
	records := make([]storage.RunRecord, 0, len(results))
	for _, result := range results {
		records = append(records, storage.RunRecord{
			ID:             result.ID,
			Framework:      result.Framework,
			Mode:           string(result.Mode),
			Seconds:        result.Elapsed.Seconds(),
			StructureSize:  result.Params.StructureSize,
			Regularization: result.Params.Regularization,
			CreatedAt:      time.Now().Unix(),
		})
	}

	return b.storage.CreateRunRecord(records...)
}

// report renders the comparison table and the grouped bar chart.
func (b *benchmark) report(results []*runner.Result) error {
	entries, err := report.Reshape(results)
	if err != nil {
		return err
	}

	report.WriteTable(b.tableOut, entries)

	chartFile := filepath.Join(b.config.WorkDir, b.config.Report.ChartFile)
	if err := report.SaveChart(chartFile, entries); err != nil {
		return err
	}

	logger.Infof("saved training-time chart to %s", chartFile)
	return nil
}

// holdoutAccuracy scores a fitted model on the test partition.
func holdoutAccuracy(model framework.Model, test base.FixedDataGrid) (float64, error) {
	pred, err := model.Predict(test)
	if err != nil {
		return 0, err
	}

	cm, err := evaluation.GetConfusionMatrix(test, pred)
	if err != nil {
		return 0, err
	}

	return evaluation.GetAccuracy(cm), nil
}
