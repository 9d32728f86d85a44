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
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"dirpx.dev/rpc2"
	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/dispatch"
)

func newParamsCmd(g *globals) *cobra.Command {
	var recordFile string
	cmd := &cobra.Command{
		Use:   "params TYPE VERB",
		Short: "Print the request a verb builds for a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := g.setup(); err != nil {
				return err
			}
			var record any = map[string]any{}
			if recordFile != "" {
				var err error
				if record, err = readRecord(recordFile); err != nil {
					return err
				}
			}
			opts, err := rpc2.Resolve(args[0])
			if err != nil {
				return err
			}
			d := dispatch.New(nil, rpc2.Templater(), rpc2.Config())
			req, err := d.Request(opts, apis.Verb(args[1]), record)
			if err != nil {
				return err
			}
			b, err := json.MarshalIndent(envelope(req), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVarP(&recordFile, "record", "r", "", "JSON record file")
	return cmd
}

// envelope lays a request out for printing in a fixed key order.
func envelope(req apis.Request) *orderedmap.OrderedMap[string, any] {
	om := orderedmap.New[string, any]()
	om.Set("method", req.Method)
	om.Set("params", req.Params)
	om.Set("url", req.URL)
	om.Set("headers", req.Headers)
	return om
}
