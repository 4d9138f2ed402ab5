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

package slices

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	assert := assert.New(t)
	assert.True(Contains([]string{"none", "grid"}, "grid"))
	assert.False(Contains([]string{"none", "grid"}, "random"))
	assert.False(Contains([]int{}, 1))
}

func TestRemoveDuplicates(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]string{"a", "b"}, RemoveDuplicates([]string{"a", "b", "a", "b"}))
	assert.Nil(RemoveDuplicates([]string{}))
}
