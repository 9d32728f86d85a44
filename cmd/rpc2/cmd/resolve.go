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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dirpx.dev/rpc2"
	"dirpx.dev/rpc2/schema"
)

func newResolveCmd(g *globals) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "resolve TYPE",
		Short: "Print the merged options of a type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f schema.Format
			switch output {
			case "yaml":
				f = schema.FormatYAML
			case "json":
				f = schema.FormatJSON
			default:
				return fmt.Errorf("invalid --output %q", output)
			}
			if err := g.setup(); err != nil {
				return err
			}
			opts, err := rpc2.Resolve(args[0])
			if err != nil {
				return err
			}
			b, err := schema.Marshal(opts.Tree, f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(b); err != nil {
				return err
			}
			if f == schema.FormatJSON {
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml or json")
	return cmd
}
