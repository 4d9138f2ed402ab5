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

package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

const (
	// DefaultResultsFileName is default file name of the run record export.
	DefaultResultsFileName = "results.csv"

	// DefaultDatasetFileName is default file name of the cached dataset archive.
	DefaultDatasetFileName = "dataset.csv.gz"
)

// RunRecord is the persisted form of one training run result.
type RunRecord struct {
	// ID is run id.
	ID string `csv:"id"`

	// Framework is framework name.
	Framework string `csv:"framework"`

	// Mode is search mode, none or grid.
	Mode string `csv:"mode"`

	// Seconds is elapsed wall-clock duration of the fit call.
	Seconds float64 `csv:"seconds"`

	// StructureSize is the selected hidden-layer width.
	StructureSize int `csv:"structure_size"`

	// Regularization is the selected regularization strength.
	Regularization float64 `csv:"regularization"`

	// CreatedAt is run record create time, unix seconds.
	CreatedAt int64 `csv:"created_at"`
}

// Storage is the interface used for run artifacts.
type Storage interface {
	// CreateRunRecord appends run records to the results csv file.
	CreateRunRecord(...RunRecord) error

	// ListRunRecords returns all run records of the results csv file.
	ListRunRecords() ([]RunRecord, error)

	// CreateDataset writes the fetched dataset archive to the cache file.
	CreateDataset(io.Reader) error

	// OpenDataset opens the cached dataset archive for read.
	OpenDataset() (io.ReadCloser, error)

	// Clear removes all files.
	Clear() error
}

type storage struct {
	baseDir         string
	resultsFileName string
	datasetFileName string
}

// Option is a functional option for configuring the Storage.
type Option func(s *storage)

// WithResultsFileName sets the file name of the run record export.
func WithResultsFileName(name string) Option {
	return func(s *storage) {
		s.resultsFileName = name
	}
}

// WithDatasetFileName sets the file name of the cached dataset archive.
func WithDatasetFileName(name string) Option {
	return func(s *storage) {
		s.datasetFileName = name
	}
}

// New returns a new Storage instance.
func New(baseDir string, options ...Option) Storage {
	s := &storage{
		baseDir:         baseDir,
		resultsFileName: DefaultResultsFileName,
		datasetFileName: DefaultDatasetFileName,
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// CreateRunRecord appends run records to the results csv file.
func (s *storage) CreateRunRecord(records ...RunRecord) error {
	file, err := os.OpenFile(s.resultsFilename(), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := gocsv.MarshalWithoutHeaders(records, file); err != nil {
		return err
	}

	return nil
}

// ListRunRecords returns all run records of the results csv file.
func (s *storage) ListRunRecords() ([]RunRecord, error) {
	file, err := os.Open(s.resultsFilename())
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []RunRecord
	if err := gocsv.UnmarshalWithoutHeaders(file, &records); err != nil {
		return nil, err
	}

	return records, nil
}

// CreateDataset writes the fetched dataset archive to the cache file.
func (s *storage) CreateDataset(r io.Reader) error {
	file, err := os.OpenFile(s.datasetFilename(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		// Drop the partial cache file, a truncated archive would poison
		// every following run.
		if err := os.Remove(s.datasetFilename()); err != nil {
			return err
		}

		return err
	}

	return nil
}

// OpenDataset opens the cached dataset archive for read.
func (s *storage) OpenDataset() (io.ReadCloser, error) {
	file, err := os.Open(s.datasetFilename())
	if err != nil {
		return nil, err
	}

	return file, nil
}

// Clear removes all files.
func (s *storage) Clear() error {
	if err := os.Remove(s.resultsFilename()); err != nil && !os.IsNotExist(err) {
		return err
	}

	if err := os.Remove(s.datasetFilename()); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// resultsFilename generates the results csv file name.
func (s *storage) resultsFilename() string {
	return filepath.Join(s.baseDir, s.resultsFileName)
}

// datasetFilename generates the dataset cache file name.
func (s *storage) datasetFilename() string {
	return filepath.Join(s.baseDir, s.datasetFileName)
}
