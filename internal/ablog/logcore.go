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

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CoreLogFileName is the benchmark log file name.
const CoreLogFileName = "core.log"

const (
	defaultRotateMaxSize    = 100
	defaultRotateMaxBackups = 10
	defaultRotateMaxAge     = 7
)

const encodeTimeFormat = "2006-01-02 15:04:05.000"

// LogRotateConfig carries lumberjack rotation settings, zero values fall
// back to the package defaults.
type LogRotateConfig struct {
	// MaxSize is maximum size in megabytes of log files before rotation.
	MaxSize int

	// MaxAge is maximum number of days to retain old log files.
	MaxAge int

	// MaxBackups is maximum number of old log files to keep.
	MaxBackups int
}

// CreateLogger builds a rotated JSON file logger.
func CreateLogger(filePath string, verbose bool, rotate LogRotateConfig) (*zap.Logger, zap.AtomicLevel, error) {
	if rotate.MaxSize == 0 {
		rotate.MaxSize = defaultRotateMaxSize
	}
	if rotate.MaxAge == 0 {
		rotate.MaxAge = defaultRotateMaxAge
	}
	if rotate.MaxBackups == 0 {
		rotate.MaxBackups = defaultRotateMaxBackups
	}

	rotateConfig := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    rotate.MaxSize,
		MaxAge:     rotate.MaxAge,
		MaxBackups: rotate.MaxBackups,
		LocalTime:  true,
	}
	syncer := zapcore.AddSync(rotateConfig)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(encodeTimeFormat)

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		syncer,
		level,
	)

	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.WarnLevel), zap.AddCallerSkip(1)}
	return zap.New(core, opts...), level, nil
}
