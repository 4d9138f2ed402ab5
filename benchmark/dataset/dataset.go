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

package dataset

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"sort"

	"github.com/sjwhitworth/golearn/base"

	logger "github.com/annbench/annbench/internal/ablog"
	"github.com/annbench/annbench/benchmark/config"
	"github.com/annbench/annbench/benchmark/storage"
)

const (
	// LabelName is name of the categorical label attribute.
	LabelName = "class"

	// featureNamePrefix prefixes the generated feature attribute names, V1..Vn.
	featureNamePrefix = "V"
)

// Loader retrieves the benchmark dataset and downsamples it.
type Loader interface {
	// Load returns the downsampled dataset, fetching the archive over HTTP
	// on a cache miss. A single fetch attempt is made, no retry.
	Load(context.Context) (*base.DenseInstances, error)
}

// loader implements Loader interface.
type loader struct {
	config     *config.DatasetConfig
	storage    storage.Storage
	httpClient *http.Client
}

// NewLoader returns a new Loader.
func NewLoader(cfg *config.DatasetConfig, storage storage.Storage) Loader {
	return &loader{
		config:     cfg,
		storage:    storage,
		httpClient: http.DefaultClient,
	}
}

// Load returns the downsampled dataset.
func (l *loader) Load(ctx context.Context) (*base.DenseInstances, error) {
	archive, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	gz, err := gzip.NewReader(archive)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	// The parser needs a seekable reader, it counts rows before parsing.
	body, err := io.ReadAll(gz)
	if err != nil {
		return nil, err
	}

	raw, err := base.ParseCSVToInstancesFromReader(bytes.NewReader(body), false)
	if err != nil {
		return nil, err
	}

	cols, rows := raw.Size()
	if cols != l.config.FeatureCount+1 {
		return nil, fmt.Errorf("dataset has %d columns, expected %d feature columns and one label column", cols, l.config.FeatureCount)
	}

	if rows == 0 {
		return nil, errors.New("dataset is empty")
	}
	logger.Infof("loaded dataset with %d rows and %d columns", rows, cols)

	sampled, err := Sample(raw, l.config.SampleFraction, l.config.SampleSeed)
	if err != nil {
		return nil, err
	}

	_, sampledRows := sampled.Size()
	logger.Infof("downsampled dataset to %d rows, fraction %g", sampledRows, l.config.SampleFraction)
	return sampled, nil
}

// open returns the cached dataset archive, fetching it first on a cache miss.
func (l *loader) open(ctx context.Context) (io.ReadCloser, error) {
	if archive, err := l.storage.OpenDataset(); err == nil {
		logger.Info("using cached dataset archive")
		return archive, nil
	}

	if err := l.fetch(ctx); err != nil {
		return nil, err
	}

	return l.storage.OpenDataset()
}

// fetch retrieves the dataset archive and stores it in the cache file.
func (l *loader) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.config.URL, nil)
	if err != nil {
		return err
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch dataset %s: unexpected status %s", l.config.URL, resp.Status)
	}

	logger.Infof("fetched dataset archive from %s", l.config.URL)
	return l.storage.CreateDataset(resp.Body)
}

// Sample keeps a uniform random fraction of rows, drawn without replacement.
// The draw is deterministic for a fixed seed.
func Sample(inst base.FixedDataGrid, fraction float64, seed int64) (*base.DenseInstances, error) {
	_, rows := inst.Size()
	n := int(math.Round(float64(rows) * fraction))
	if n < 1 {
		return nil, fmt.Errorf("sampling %d rows with fraction %g keeps no rows", rows, fraction)
	}

	rng := rand.New(rand.NewSource(seed))
	keep := rng.Perm(rows)[:n]
	sort.Ints(keep)
	return SelectRows(inst, keep)
}

// SelectRows copies the given rows into a fresh DenseInstances sharing the
// source attributes.
func SelectRows(src base.FixedDataGrid, rows []int) (*base.DenseInstances, error) {
	attrs := src.AllAttributes()

	out := base.NewDenseInstances()
	outSpecs := make([]base.AttributeSpec, 0, len(attrs))
	for _, a := range attrs {
		outSpecs = append(outSpecs, out.AddAttribute(a))
	}

	for _, a := range src.AllClassAttributes() {
		if err := out.AddClassAttribute(a); err != nil {
			return nil, err
		}
	}

	if err := out.Extend(len(rows)); err != nil {
		return nil, err
	}

	srcSpecs := make([]base.AttributeSpec, 0, len(attrs))
	for _, a := range attrs {
		spec, err := src.GetAttribute(a)
		if err != nil {
			return nil, err
		}

		srcSpecs = append(srcSpecs, spec)
	}

	for i, row := range rows {
		for j := range attrs {
			out.Set(outSpecs[j], i, src.Get(srcSpecs[j], row))
		}
	}

	return out, nil
}
