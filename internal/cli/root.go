/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package cli

import (
	"fmt"
	"os"

	"github.com/bdlm/log"
	"github.com/spf13/cobra"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/config"
	"dirpx.dev/gridx/diagnostic"
)

// options holds the state shared by every subcommand once the persistent
// flags have been parsed.
type options struct {
	configPath string
	logLevel   string

	cfg    apis.Config
	logger *log.Logger
}

// sink returns a diagnostic sink writing to the command logger.
func (o *options) sink() diagnostic.Sink {
	return diagnostic.NewLogSink(o.logger)
}

func (o *options) setup(cmd *cobra.Command) error {
	level, err := log.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", o.logLevel, err)
	}
	logger := log.New()
	logger.Out = cmd.ErrOrStderr()
	logger.SetLevel(level)
	o.logger = logger

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	logger.WithFields(log.Fields{
		"config":              o.configPath,
		"max_unwrap":          cfg.MaxUnwrap,
		"strict_registration": cfg.StrictRegistration,
		"coalesce_moves":      cfg.CoalesceMoves,
	}).Debug("configuration loaded")
	return nil
}

// NewRootCmd returns the gridx command tree.
func NewRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "gridx",
		Short: "Replay and inspect sectioned grid models",
		Long: `gridx drives the grid storage and view registry from YAML scripts.

Use "replay" to run a script and print the updates a surface would receive,
and "classify" to see which registry key a model value resolves under.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (yaml, json or toml); GRIDX_* variables override it")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(newReplayCmd(o))
	cmd.AddCommand(newClassifyCmd(o))
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
