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
	"reflect"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	uref "dirpx.dev/gridx/utils/reflect"
)

func newClassifyCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <yaml-value>...",
		Short: "Print the registry key each YAML value resolves under",
		Example: `  gridx classify hello 42 true "[1, 2]" "{a: 1}"
  gridx classify "~"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, arg := range args {
				var v any
				if err := yaml.Unmarshal([]byte(arg), &v); err != nil {
					return fmt.Errorf("failed to parse %q: %w", arg, err)
				}
				if v == nil {
					fmt.Fprintf(w, "%s\t%s\n", arg, errStyle.Render("nil model"))
					continue
				}
				t := reflect.TypeOf(v)
				key, err := uref.Normalize(t, o.cfg)
				if err != nil {
					fmt.Fprintf(w, "%s\t%s\t%s\n", arg, t, errStyle.Render(err.Error()))
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", arg, t, viewStyle.Render(uref.Name(key)))
			}
			return nil
		},
	}
}
