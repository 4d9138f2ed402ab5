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
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/annbench/annbench/benchmark/runner"
	"github.com/annbench/annbench/pkg/slices"
)

// Entry is one long-form comparison row.
type Entry struct {
	// Method is the framework name.
	Method string

	// Type is the search mode.
	Type string

	// Seconds is the wall-clock fit time.
	Seconds float64
}

// modes are the search modes every method must report, in render order.
var modes = []string{string(runner.ModeNone), string(runner.ModeGrid)}

// Reshape turns the four run results into long-form comparison entries,
// ordered by method first appearance with none before grid. Anything other
// than two methods with both modes once each is a shape error.
func Reshape(results []*runner.Result) ([]Entry, error) {
	if len(results) != 4 {
		return nil, fmt.Errorf("comparison requires exactly 4 results, got %d", len(results))
	}

	seconds := make(map[string]map[string]float64)
	var methods []string
	for _, result := range results {
		if !slices.Contains(modes, string(result.Mode)) {
			return nil, fmt.Errorf("result %s has unknown search mode %q", result.ID, result.Mode)
		}

		if result.Elapsed < 0 {
			return nil, fmt.Errorf("result %s has negative elapsed time", result.ID)
		}

		if _, ok := seconds[result.Framework]; !ok {
			methods = append(methods, result.Framework)
			seconds[result.Framework] = make(map[string]float64)
		}

		if _, ok := seconds[result.Framework][string(result.Mode)]; ok {
			return nil, fmt.Errorf("duplicate result for method %s mode %s", result.Framework, result.Mode)
		}

		seconds[result.Framework][string(result.Mode)] = result.Elapsed.Seconds()
	}

	if len(methods) != 2 {
		return nil, fmt.Errorf("comparison requires exactly 2 methods, got %d", len(methods))
	}

	entries := make([]Entry, 0, 4)
	for _, method := range methods {
		for _, mode := range modes {
			s, ok := seconds[method][mode]
			if !ok {
				return nil, fmt.Errorf("method %s is missing mode %s", method, mode)
			}

			entries = append(entries, Entry{
				Method:  method,
				Type:    mode,
				Seconds: s,
			})
		}
	}

	return entries, nil
}

// WriteTable renders the comparison entries as a text table.
func WriteTable(w io.Writer, entries []Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Method", "Type", "Seconds"})
	for _, entry := range entries {
		table.Append([]string{entry.Method, entry.Type, strconv.FormatFloat(entry.Seconds, 'f', 3, 64)})
	}

	table.Render()
}

// SaveChart renders the comparison entries as a grouped bar chart, one group
// per method and one bar per search mode, and saves it as a PNG.
func SaveChart(path string, entries []Entry) error {
	if len(entries) == 0 {
		return errors.New("chart requires at least one entry")
	}

	var methods []string
	byMode := make(map[string]plotter.Values)
	for _, entry := range entries {
		if !slices.Contains(methods, entry.Method) {
			methods = append(methods, entry.Method)
		}

		byMode[entry.Type] = append(byMode[entry.Type], entry.Seconds)
	}

	p := plot.New()
	p.Title.Text = "Training time by framework"
	p.Y.Label.Text = "seconds"

	width := vg.Points(20)
	offset := -width * vg.Length(len(modes)-1) / 2
	for i, mode := range modes {
		values, ok := byMode[mode]
		if !ok {
			continue
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}

		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = offset
		offset += width

		p.Add(bars)
		p.Legend.Add(mode, bars)
	}

	p.Legend.Top = true
	p.NominalX(methods...)

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
