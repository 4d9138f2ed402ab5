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

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annbench/annbench/benchmark/runner"
)

func result(framework string, mode runner.Mode, elapsed time.Duration) *runner.Result {
	return &runner.Result{
		ID:        framework + "-" + string(mode),
		Framework: framework,
		Mode:      mode,
		Elapsed:   elapsed,
	}
}

func fourResults() []*runner.Result {
	return []*runner.Result{
		result("golearn", runner.ModeNone, 1500*time.Millisecond),
		result("golearn", runner.ModeGrid, 9*time.Second),
		result("go-deep", runner.ModeNone, 500*time.Millisecond),
		result("go-deep", runner.ModeGrid, 4*time.Second),
	}
}

func TestReshape(t *testing.T) {
	tests := []struct {
		name    string
		results []*runner.Result
		expect  func(t *testing.T, entries []Entry, err error)
	}{
		{
			name:    "four results in long form",
			results: fourResults(),
			expect: func(t *testing.T, entries []Entry, err error) {
				assert := assert.New(t)
				assert.NoError(err)
				assert.Equal([]Entry{
					{Method: "golearn", Type: "none", Seconds: 1.5},
					{Method: "golearn", Type: "grid", Seconds: 9},
					{Method: "go-deep", Type: "none", Seconds: 0.5},
					{Method: "go-deep", Type: "grid", Seconds: 4},
				}, entries)
			},
		},
		{
			name:    "wrong result count",
			results: fourResults()[:3],
			expect: func(t *testing.T, entries []Entry, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "comparison requires exactly 4 results, got 3")
			},
		},
		{
			name: "duplicate method and mode",
			results: []*runner.Result{
				result("golearn", runner.ModeNone, time.Second),
				result("golearn", runner.ModeNone, time.Second),
				result("go-deep", runner.ModeNone, time.Second),
				result("go-deep", runner.ModeGrid, time.Second),
			},
			expect: func(t *testing.T, entries []Entry, err error) {
				assert := assert.New(t)
				assert.EqualError(err, "duplicate result for method golearn mode none")
			},
		},
		{
			name: "single method",
			results: []*runner.Result{
				result("golearn", runner.ModeNone, time.Second),
				result("golearn", runner.ModeGrid, time.Second),
				result("golearn", runner.ModeNone, time.Second),
				result("golearn", runner.ModeGrid, time.Second),
			},
			expect: func(t *testing.T, entries []Entry, err error) {
				assert := assert.New(t)
				assert.Error(err)
			},
		},
		{
			name: "unknown mode",
			results: []*runner.Result{
				result("golearn", runner.ModeNone, time.Second),
				result("golearn", runner.Mode("exhaustive"), time.Second),
				result("go-deep", runner.ModeNone, time.Second),
				result("go-deep", runner.ModeGrid, time.Second),
			},
			expect: func(t *testing.T, entries []Entry, err error) {
				assert := assert.New(t)
				assert.Error(err)
			},
		},
		{
			name: "negative elapsed time",
			results: []*runner.Result{
				result("golearn", runner.ModeNone, -time.Second),
				result("golearn", runner.ModeGrid, time.Second),
				result("go-deep", runner.ModeNone, time.Second),
				result("go-deep", runner.ModeGrid, time.Second),
			},
			expect: func(t *testing.T, entries []Entry, err error) {
				assert := assert.New(t)
				assert.Error(err)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := Reshape(tc.results)
			tc.expect(t, entries, err)
		})
	}
}

func TestWriteTable(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	entries, err := Reshape(fourResults())
	require.NoError(err)

	var buf bytes.Buffer
	WriteTable(&buf, entries)

	out := buf.String()
	assert.Contains(out, "METHOD")
	assert.Contains(out, "golearn")
	assert.Contains(out, "go-deep")
	assert.Contains(out, "9.000")
}

func TestSaveChart(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	entries, err := Reshape(fourResults())
	require.NoError(err)

	path := filepath.Join(t.TempDir(), "training-time.png")
	require.NoError(SaveChart(path, entries))

	info, err := os.Stat(path)
	require.NoError(err)
	assert.Greater(info.Size(), int64(0))
}

func TestSaveChart_Empty(t *testing.T) {
	assert := assert.New(t)

	assert.Error(SaveChart(filepath.Join(t.TempDir(), "empty.png"), nil))
}
