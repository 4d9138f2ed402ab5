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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/annbench/annbench/benchmark"
	"github.com/annbench/annbench/benchmark/config"
	logger "github.com/annbench/annbench/internal/ablog"
	"github.com/annbench/annbench/version"
)

var cfg *config.Config

// rootCmd represents the annbench command.
var rootCmd = &cobra.Command{
	Use:   "annbench",
	Short: "training-time benchmark for Go neural-network frameworks",
	Long: `annbench downloads the UCI forest covertype dataset, downsamples and
standardizes it, then fits a feed-forward classifier with golearn and go-deep,
each with and without hyperparameter grid search, and compares the wall-clock
training times in a table and a grouped bar chart.`,
	Args:               cobra.NoArgs,
	SilenceUsage:       true,
	DisableAutoGenTag:  true,
	Version:            version.Version(),
	FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(cmd); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := initLogger(); err != nil {
			return err
		}
		logger.Infof("annbench version %s", version.Version())

		b, err := benchmark.New(cfg)
		if err != nil {
			return err
		}

		return b.Run(context.Background())
	},
}

func init() {
	cfg = config.New()

	flags := rootCmd.Flags()
	flags.StringP("config", "f", "", "the path of configuration file")
	flags.Bool("verbose", false, "enable debug level logging")
	flags.Bool("console", false, "write logs to stderr instead of the log file")
	flags.String("workdir", cfg.WorkDir, "base directory of run artifacts")
	flags.Bool("concurrent", false, "execute the four benchmark runs concurrently")

	if err := viper.BindPFlag("verbose", flags.Lookup("verbose")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("console", flags.Lookup("console")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("workDir", flags.Lookup("workdir")); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("runner.concurrent", flags.Lookup("concurrent")); err != nil {
		panic(err)
	}
}

// initConfig reads the optional configuration file and environment into cfg,
// flag values take precedence.
func initConfig(cmd *cobra.Command) error {
	cfgFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("annbench")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".annbench"))
		}
	}

	viper.SetEnvPrefix("annbench")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read configuration: %w", err)
		}
	}

	return viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
}

// initLogger wires the global loggers per the configuration.
func initLogger() error {
	return logger.Init(cfg.Verbose, cfg.Console, filepath.Join(cfg.WorkDir, "logs"), logger.LogRotateConfig{
		MaxSize:    cfg.LogMaxSize,
		MaxAge:     cfg.LogMaxAge,
		MaxBackups: cfg.LogMaxBackups,
	})
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
