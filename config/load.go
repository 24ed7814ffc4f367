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

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dirpx.dev/gridx/apis"
)

// EnvPrefix prefixes environment overrides, e.g. GRIDX_MAX_UNWRAP.
const EnvPrefix = "GRIDX"

// Load reads configuration from path (any format viper understands) and
// GRIDX_* environment variables, on top of DefaultConfig. An empty path
// reads the environment only.
func Load(path string) (apis.Config, error) {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("max_unwrap", def.MaxUnwrap)
	v.SetDefault("strict_registration", def.StrictRegistration)
	v.SetDefault("coalesce_moves", def.CoalesceMoves)
	v.SetDefault("deliver_empty_updates", def.DeliverEmptyUpdates)
	v.SetDefault("suggestion_distance", def.SuggestionDistance)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return apis.Config{}, fmt.Errorf("gridx(config): read %s: %w", path, err)
		}
	}

	var c apis.Config
	if err := v.Unmarshal(&c); err != nil {
		return apis.Config{}, fmt.Errorf("gridx(config): unmarshal: %w", err)
	}
	return Sanitize(c), nil
}
