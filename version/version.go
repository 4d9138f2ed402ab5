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

package version

import (
	"fmt"
	"runtime"
)

var (
	// GitVersion is the semantic version, overridden at link time.
	GitVersion = "v0.3.0"

	// GitCommit is git commit id, output of $(git rev-parse HEAD).
	GitCommit = "unknown"

	// Platform is os and arch.
	Platform = runtime.GOOS + "/" + runtime.GOARCH

	// BuildTime is build date.
	BuildTime = "unknown"
)

// Version returns the formatted build metadata block printed at startup.
func Version() string {
	return fmt.Sprintf("Version: %s\nGit Commit: %s\nGo Version: %s\nPlatform: %s\nBuild Time: %s",
		GitVersion, GitCommit, runtime.Version(), Platform, BuildTime)
}
