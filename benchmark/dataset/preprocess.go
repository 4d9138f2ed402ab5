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
	"errors"
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"
	"github.com/sjwhitworth/golearn/base"
)

// Standardize replaces every numeric feature column with its z-score.
// Statistics are computed over all rows of the sampled dataset, before the
// train/test split, so the scaling statistics of the test rows leak into
// training. This matches the original experimental protocol and is kept on
// purpose, standardizing again with freshly computed statistics is not a
// no-op.
func Standardize(inst *base.DenseInstances) error {
	_, rows := inst.Size()
	if rows == 0 {
		return errors.New("standardize on empty dataset")
	}

	classAttrs := inst.AllClassAttributes()
	for _, attr := range inst.AllAttributes() {
		if isClassAttribute(classAttrs, attr) {
			continue
		}

		if _, ok := attr.(*base.FloatAttribute); !ok {
			continue
		}

		spec, err := inst.GetAttribute(attr)
		if err != nil {
			return err
		}

		col := make([]float64, rows)
		for i := 0; i < rows; i++ {
			col[i] = base.UnpackBytesToFloat(inst.Get(spec, i))
		}

		mean, err := stats.Mean(col)
		if err != nil {
			return err
		}

		sd, err := stats.StandardDeviation(col)
		if err != nil {
			return err
		}

		// Constant columns stay centered instead of dividing by zero.
		if sd == 0 {
			sd = 1
		}

		for i := 0; i < rows; i++ {
			inst.Set(spec, i, base.PackFloatToBytes((col[i]-mean)/sd))
		}
	}

	return nil
}

// Categorize rebuilds the table with named feature attributes V1..Vn and a
// categorical class attribute holding one level per distinct observed label.
// The label column is expected to be the last one.
func Categorize(inst *base.DenseInstances) (*base.DenseInstances, error) {
	cols, rows := inst.Size()
	if cols < 2 {
		return nil, errors.New("categorize requires at least one feature column and a label column")
	}

	attrs := inst.AllAttributes()
	featureCount := cols - 1

	out := base.NewDenseInstances()
	outSpecs := make([]base.AttributeSpec, 0, featureCount)
	for j := 0; j < featureCount; j++ {
		a := base.NewFloatAttribute(fmt.Sprintf("%s%d", featureNamePrefix, j+1))
		outSpecs = append(outSpecs, out.AddAttribute(a))
	}

	classAttr := new(base.CategoricalAttribute)
	classAttr.SetName(LabelName)
	classSpec := out.AddAttribute(classAttr)
	if err := out.AddClassAttribute(classAttr); err != nil {
		return nil, err
	}

	if err := out.Extend(rows); err != nil {
		return nil, err
	}

	srcSpecs := make([]base.AttributeSpec, 0, cols)
	for _, a := range attrs {
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}

		srcSpecs = append(srcSpecs, spec)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < featureCount; j++ {
			out.Set(outSpecs[j], i, inst.Get(srcSpecs[j], i))
		}

		label := labelString(attrs[featureCount], inst.Get(srcSpecs[featureCount], i))
		out.Set(classSpec, i, classAttr.GetSysValFromString(label))
	}

	return out, nil
}

// labelString renders a raw label value without the trailing zeros a float
// attribute formatter would add.
func labelString(attr base.Attribute, raw []byte) string {
	if _, ok := attr.(*base.FloatAttribute); ok {
		return strconv.FormatFloat(base.UnpackBytesToFloat(raw), 'g', -1, 64)
	}

	return attr.GetStringFromSysVal(raw)
}

func isClassAttribute(classAttrs []base.Attribute, attr base.Attribute) bool {
	for _, c := range classAttrs {
		if attr.Equals(c) {
			return true
		}
	}

	return false
}
