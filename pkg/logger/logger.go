// Copyright 2025 Vasync Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logger holds the process-wide structured logger. Commands log
// through the package-level helpers so interactive output on stdout stays
// separate from diagnostics on stderr.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string
}

var defaultLogger = zap.NewNop().Sugar()

// InitFromConfig replaces the process logger. The default level is warn so
// prompts and tables are not interleaved with log lines; --verbose lowers
// it to debug.
func InitFromConfig(conf *Config, name string) {
	level := zapcore.WarnLevel
	if conf != nil && conf.Level != "" {
		if parsed, err := zapcore.ParseLevel(conf.Level); err == nil {
			level = parsed
		}
	}

	encoderConf := zap.NewDevelopmentEncoderConfig()
	encoderConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConf),
		zapcore.Lock(os.Stderr),
		level,
	)
	defaultLogger = zap.New(core).Named(name).Sugar()
}

func Debugw(msg string, keysAndValues ...any) {
	defaultLogger.Debugw(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...any) {
	defaultLogger.Infow(msg, keysAndValues...)
}

func Warnw(msg string, err error, keysAndValues ...any) {
	if err != nil {
		keysAndValues = append(keysAndValues, "error", err)
	}
	defaultLogger.Warnw(msg, keysAndValues...)
}
