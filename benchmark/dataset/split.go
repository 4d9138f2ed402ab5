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
	"math"
	"math/rand"
	"sort"

	"github.com/sjwhitworth/golearn/base"
)

// StratifiedSplit partitions rows into disjoint train and test sets,
// approximately preserving the class proportions. The draw is deterministic
// for a fixed seed, repeated runs produce identical partitions.
func StratifiedSplit(inst *base.DenseInstances, fraction float64, seed int64) (*base.DenseInstances, *base.DenseInstances, error) {
	if len(inst.AllClassAttributes()) == 0 {
		return nil, nil, errors.New("stratified split requires a label column")
	}

	_, rows := inst.Size()

	// Group row indices by label, keeping first-appearance order so the
	// draw does not depend on map iteration.
	groups := make(map[string][]int)
	var order []string
	for i := 0; i < rows; i++ {
		label := base.GetClass(inst, i)
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}

		groups[label] = append(groups[label], i)
	}

	if len(order) < 2 {
		return nil, nil, errors.New("stratified split requires at least two represented classes")
	}

	rng := rand.New(rand.NewSource(seed))
	var trainRows, testRows []int
	for _, label := range order {
		group := groups[label]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		n := int(math.Round(fraction * float64(len(group))))
		trainRows = append(trainRows, group[:n]...)
		testRows = append(testRows, group[n:]...)
	}

	sort.Ints(trainRows)
	sort.Ints(testRows)

	train, err := SelectRows(inst, trainRows)
	if err != nil {
		return nil, nil, err
	}

	test, err := SelectRows(inst, testRows)
	if err != nil {
		return nil, nil, err
	}

	return train, test, nil
}
