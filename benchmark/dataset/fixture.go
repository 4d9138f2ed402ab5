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
	"fmt"
	"math/rand"
	"strconv"

	"github.com/sjwhitworth/golearn/base"
)

// Synthetic builds an in-memory classification table with gaussian feature
// values and a categorical label, shaped like the output of Categorize.
// Labels are "1".."classes" assigned round-robin, features of each class are
// shifted apart so the classes stay separable.
func Synthetic(rows, features, classes int, seed int64) (*base.DenseInstances, error) {
	rng := rand.New(rand.NewSource(seed))

	out := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, 0, features)
	for j := 0; j < features; j++ {
		a := base.NewFloatAttribute(fmt.Sprintf("%s%d", featureNamePrefix, j+1))
		specs = append(specs, out.AddAttribute(a))
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

	for i := 0; i < rows; i++ {
		class := i % classes
		for j := 0; j < features; j++ {
			v := rng.NormFloat64() + 2*float64(class)
			out.Set(specs[j], i, base.PackFloatToBytes(v))
		}

		out.Set(classSpec, i, classAttr.GetSysValFromString(strconv.Itoa(class+1)))
	}

	return out, nil
}

// SyntheticCSV renders a headerless CSV body with the same shape the remote
// dataset resource has, gaussian features and a numeric label column last.
func SyntheticCSV(rows, features, classes int, seed int64) []byte {
	rng := rand.New(rand.NewSource(seed))

	var buf bytes.Buffer
	for i := 0; i < rows; i++ {
		class := i % classes
		for j := 0; j < features; j++ {
			v := rng.NormFloat64() + 2*float64(class)
			buf.WriteString(strconv.FormatFloat(v, 'f', 4, 64))
			buf.WriteByte(',')
		}

		buf.WriteString(strconv.Itoa(class + 1))
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}
