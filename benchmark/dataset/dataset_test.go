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
	"strconv"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/sjwhitworth/golearn/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annbench/annbench/benchmark/config"
	"github.com/annbench/annbench/benchmark/storage"
)

const mockDatasetURL = "https://example.com/covtype.data.gz"

func mockDatasetConfig() *config.DatasetConfig {
	return &config.DatasetConfig{
		URL:            mockDatasetURL,
		FeatureCount:   54,
		SampleFraction: 0.02,
		SampleSeed:     123,
	}
}

func gzipBody(t *testing.T, body []byte) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(body); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	return buf.Bytes()
}

func TestLoader_Load(t *testing.T) {
	tests := []struct {
		name   string
		mock   func(t *testing.T, s storage.Storage)
		expect func(t *testing.T, inst *base.DenseInstances, err error)
	}{
		{
			name: "fetch and downsample",
			mock: func(t *testing.T, s storage.Storage) {
				httpmock.RegisterResponder("GET", mockDatasetURL,
					httpmock.NewBytesResponder(200, gzipBody(t, SyntheticCSV(1000, 54, 3, 42))))
			},
			expect: func(t *testing.T, inst *base.DenseInstances, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				cols, rows := inst.Size()
				assert.Equal(55, cols)
				assert.Equal(20, rows)
			},
		},
		{
			name: "schema mismatch",
			mock: func(t *testing.T, s storage.Storage) {
				httpmock.RegisterResponder("GET", mockDatasetURL,
					httpmock.NewBytesResponder(200, gzipBody(t, SyntheticCSV(100, 10, 3, 42))))
			},
			expect: func(t *testing.T, inst *base.DenseInstances, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "dataset has 11 columns, expected 54 feature columns and one label column")
			},
		},
		{
			name: "resource unreachable",
			mock: func(t *testing.T, s storage.Storage) {
				httpmock.RegisterResponder("GET", mockDatasetURL,
					httpmock.NewStringResponder(404, "not found"))
			},
			expect: func(t *testing.T, inst *base.DenseInstances, err error) {
				assert := assert.New(t)
				assert.Error(err)
			},
		},
		{
			name: "cache hit skips the network",
			mock: func(t *testing.T, s storage.Storage) {
				if err := s.CreateDataset(bytes.NewReader(gzipBody(t, SyntheticCSV(1000, 54, 3, 42)))); err != nil {
					t.Fatal(err)
				}
			},
			expect: func(t *testing.T, inst *base.DenseInstances, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				_, rows := inst.Size()
				assert.Equal(20, rows)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpmock.Activate()
			defer httpmock.DeactivateAndReset()

			s := storage.New(t.TempDir())
			tc.mock(t, s)

			inst, err := NewLoader(mockDatasetConfig(), s).Load(context.Background())
			tc.expect(t, inst, err)
		})
	}
}

func TestSample_Deterministic(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	inst, err := Synthetic(200, 4, 2, 7)
	require.NoError(err)

	a, err := Sample(inst, 0.1, 123)
	require.NoError(err)
	b, err := Sample(inst, 0.1, 123)
	require.NoError(err)

	assert.Equal(rowFingerprints(t, a), rowFingerprints(t, b))
	_, rows := a.Size()
	assert.Equal(20, rows)
}

func TestSample_KeepsNoRows(t *testing.T) {
	require := require.New(t)

	inst, err := Synthetic(10, 4, 2, 7)
	require.NoError(err)

	_, err = Sample(inst, 0.001, 123)
	require.Error(err)
}

// rowFingerprints renders each row as its full-precision first feature value
// plus label, enough to identify a row of a gaussian fixture. The attribute's
// own string rendering truncates to two decimals and would collide.
func rowFingerprints(t *testing.T, inst *base.DenseInstances) []string {
	attrs := inst.AllAttributes()
	spec, err := inst.GetAttribute(attrs[0])
	if err != nil {
		t.Fatal(err)
	}

	_, rows := inst.Size()
	fingerprints := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		v := base.UnpackBytesToFloat(inst.Get(spec, i))
		fingerprints = append(fingerprints, strconv.FormatFloat(v, 'g', -1, 64)+"/"+base.GetClass(inst, i))
	}

	return fingerprints
}
