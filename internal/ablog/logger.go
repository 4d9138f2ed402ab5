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
)

var (
	CoreLogger *zap.SugaredLogger

	levels []zap.AtomicLevel
)

func init() {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	log, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zap.WarnLevel), zap.AddCallerSkip(1))
	if err == nil {
		SetCoreLogger(log.Sugar())
	}
	levels = append(levels, config.Level)
}

// SetLevel updates all log levels.
func SetLevel(level zapcore.Level) {
	for _, l := range levels {
		l.SetLevel(level)
	}
}

func SetCoreLogger(log *zap.SugaredLogger) {
	CoreLogger = log
}

type SugaredLoggerOnWith struct {
	withArgs []any
}

func With(args ...any) *SugaredLoggerOnWith {
	return &SugaredLoggerOnWith{
		withArgs: args,
	}
}

// WithRun tags every entry with the identity of one training run.
func WithRun(runID, framework, mode string) *SugaredLoggerOnWith {
	return &SugaredLoggerOnWith{
		withArgs: []any{"runID", runID, "framework", framework, "mode", mode},
	}
}

func (log *SugaredLoggerOnWith) Infof(template string, args ...any) {
	CoreLogger.With(log.withArgs...).Infof(template, args...)
}

func (log *SugaredLoggerOnWith) Info(args ...any) {
	CoreLogger.With(log.withArgs...).Info(args...)
}

func (log *SugaredLoggerOnWith) Warnf(template string, args ...any) {
	CoreLogger.With(log.withArgs...).Warnf(template, args...)
}

func (log *SugaredLoggerOnWith) Errorf(template string, args ...any) {
	CoreLogger.With(log.withArgs...).Errorf(template, args...)
}

func (log *SugaredLoggerOnWith) Debugf(template string, args ...any) {
	CoreLogger.With(log.withArgs...).Debugf(template, args...)
}

func Infof(template string, args ...any) {
	CoreLogger.Infof(template, args...)
}

func Info(args ...any) {
	CoreLogger.Info(args...)
}

func Warnf(template string, args ...any) {
	CoreLogger.Warnf(template, args...)
}

func Errorf(template string, args ...any) {
	CoreLogger.Errorf(template, args...)
}

func Error(args ...any) {
	CoreLogger.Error(args...)
}

func Debugf(template string, args ...any) {
	CoreLogger.Debugf(template, args...)
}

func Fatalf(template string, args ...any) {
	CoreLogger.Fatalf(template, args...)
}

func Fatal(args ...any) {
	CoreLogger.Fatal(args...)
}
