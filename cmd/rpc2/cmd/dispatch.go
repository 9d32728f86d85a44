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
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dirpx.dev/rpc2"
	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/dispatch"
	"dirpx.dev/rpc2/transport"
)

func newDispatchCmd(g *globals) *cobra.Command {
	var (
		recordFiles []string
		parallel    int
	)
	cmd := &cobra.Command{
		Use:   "dispatch TYPE VERB",
		Short: "Dry-run a verb for each record through a recording transport",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(recordFiles) == 0 {
				return errors.New("at least one --record is required")
			}
			if err := g.setup(); err != nil {
				return err
			}
			records := make([]any, len(recordFiles))
			for i, f := range recordFiles {
				r, err := readRecord(f)
				if err != nil {
					return err
				}
				records[i] = r
			}

			rec := transport.NewRecorder()
			rpc2.SetTransport(rec)
			defer rpc2.SetTransport(nil)

			name, verb := args[0], apis.Verb(args[1])
			errs := make([]error, len(records))
			grp, ctx := errgroup.WithContext(cmd.Context())
			if parallel > 0 {
				grp.SetLimit(parallel)
			}
			for i, r := range records {
				i, r := i, r
				grp.Go(func() error {
					_, err := rpc2.Do(ctx, name, verb, r)
					errs[i] = err
					if err != nil && !errors.Is(err, dispatch.ErrVerbIgnored) {
						return fmt.Errorf("%s: %w", recordFiles[i], err)
					}
					return nil
				})
			}
			if err := grp.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, err := range errs {
				if err != nil {
					printError(cmd.ErrOrStderr(), recordFiles[i], err)
				}
			}
			for _, c := range rec.Calls() {
				b, err := json.Marshal(envelope(c.Request))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s %s\n", c.ID, b)
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&recordFiles, "record", "r", nil, "JSON record file (repeatable)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 0, "maximum concurrent dispatches (0 means unlimited)")
	return cmd
}
