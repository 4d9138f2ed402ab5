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
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_New(t *testing.T) {
	tests := []struct {
		name    string
		baseDir string
		options []Option
		expect  func(t *testing.T, s Storage)
	}{
		{
			name:    "new storage",
			baseDir: t.TempDir(),
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				assert.Equal(reflect.TypeOf(s).Elem().Name(), "storage")
				assert.Equal(DefaultResultsFileName, s.(*storage).resultsFileName)
				assert.Equal(DefaultDatasetFileName, s.(*storage).datasetFileName)
			},
		},
		{
			name:    "new storage with file names",
			baseDir: t.TempDir(),
			options: []Option{WithResultsFileName("foo.csv"), WithDatasetFileName("bar.csv.gz")},
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				assert.Equal("foo.csv", s.(*storage).resultsFileName)
				assert.Equal("bar.csv.gz", s.(*storage).datasetFileName)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.expect(t, New(tc.baseDir, tc.options...))
		})
	}
}

func TestStorage_CreateRunRecord(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	s := New(t.TempDir())
	record := RunRecord{
		ID:             "4457d1d6-6787-43cb-aa64-654b0c1bb600",
		Framework:      "golearn",
		Mode:           "grid",
		Seconds:        1.25,
		StructureSize:  10,
		Regularization: 0.1,
		CreatedAt:      time.Now().Unix(),
	}

	require.NoError(s.CreateRunRecord(record))
	require.NoError(s.CreateRunRecord(record))

	records, err := s.ListRunRecords()
	require.NoError(err)
	assert.Len(records, 2)
	assert.Equal(record, records[0])
	assert.Equal(record, records[1])
}

func TestStorage_ListRunRecords(t *testing.T) {
	tests := []struct {
		name   string
		mock   func(t *testing.T, s Storage)
		expect func(t *testing.T, s Storage)
	}{
		{
			name: "results file missing",
			mock: func(t *testing.T, s Storage) {},
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				_, err := s.ListRunRecords()
				assert.Error(err)
			},
		},
		{
			name: "list records of a file",
			mock: func(t *testing.T, s Storage) {
				if err := s.CreateRunRecord(RunRecord{ID: "foo", Framework: "godeep", Mode: "none", Seconds: 0.5}); err != nil {
					t.Fatal(err)
				}
			},
			expect: func(t *testing.T, s Storage) {
				assert := assert.New(t)
				records, err := s.ListRunRecords()
				assert.NoError(err)
				assert.Len(records, 1)
				assert.Equal("godeep", records[0].Framework)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(t.TempDir())
			tc.mock(t, s)
			tc.expect(t, s)
		})
	}
}

func TestStorage_Dataset(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	s := New(t.TempDir())
	_, err := s.OpenDataset()
	assert.Error(err, "cache miss before create")

	require.NoError(s.CreateDataset(strings.NewReader("1,2,3\n")))

	r, err := s.OpenDataset()
	require.NoError(err)
	defer r.Close()

	b, err := io.ReadAll(r)
	require.NoError(err)
	assert.Equal("1,2,3\n", string(b))
}

func TestStorage_Clear(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	s := New(t.TempDir())
	require.NoError(s.Clear(), "clear on empty storage")

	require.NoError(s.CreateRunRecord(RunRecord{ID: "foo"}))
	require.NoError(s.CreateDataset(strings.NewReader("1,2,3\n")))
	require.NoError(s.Clear())

	_, err := s.ListRunRecords()
	assert.Error(err)
	_, err = s.OpenDataset()
	assert.Error(err)
}
