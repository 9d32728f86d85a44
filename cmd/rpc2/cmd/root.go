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
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"dirpx.dev/rpc2"
	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/config"
	"dirpx.dev/rpc2/schema"
)

// globals holds the flags shared by all subcommands.
type globals struct {
	file        string
	unknownVerb string
}

// Execute runs the rpc2 command line.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "rpc2",
		Short: "Inspect and dry-run declarative RPC bindings",
		Long: `rpc2 loads record type declarations from a YAML, JSON or TOML file
and shows how they resolve: merged options per type, the payload a verb
builds for a record, and the calls a dispatch would make.`,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			// glog reads its flags from flag.CommandLine
			return flag.CommandLine.Parse(nil)
		},
	}
	root.PersistentFlags().StringVarP(&g.file, "file", "f", "", "schema file (.yaml, .yml, .json, .toml)")
	root.PersistentFlags().StringVar(&g.unknownVerb, "unknown-verb", apis.UnknownVerbIgnore.String(), "unknown verb policy: ignore or reject")
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	root.AddCommand(
		newTypesCmd(g),
		newResolveCmd(g),
		newParamsCmd(g),
		newDispatchCmd(g),
		newVersionCmd(),
	)
	return root
}

// setup publishes a snapshot holding apis.BaseModel and the types
// declared in g.file.
func (g *globals) setup() error {
	policy, ok := config.ParseUnknownVerb(g.unknownVerb)
	if !ok {
		return fmt.Errorf("invalid --unknown-verb %q", g.unknownVerb)
	}
	cfg := config.NewConfig(config.WithUnknownVerb(policy))

	reg := rpc2.Builder().BuildRegistry(cfg, nil)
	if err := reg.Register(apis.Schema{Name: apis.BaseModel, Options: apis.DefaultOptions()}); err != nil {
		return err
	}
	if g.file != "" {
		schemas, err := schema.Load(g.file)
		if err != nil {
			return err
		}
		if err := reg.RegisterAll(schemas...); err != nil {
			return err
		}
	}
	rpc2.SetAll(&cfg, reg, nil, nil, nil)
	return nil
}

// readRecord parses a JSON record file into plain maps.
func readRecord(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func printError(w io.Writer, msg string, err error) {
	fmt.Fprintf(w, "error: %s: %v\n", msg, err)
}
