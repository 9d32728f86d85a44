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

package schema

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"dirpx.dev/rpc2/apis"
)

// Marshal renders an options tree as YAML or JSON, keeping key order.
// Computed leaves have no textual form and render as "<computed>".
func Marshal(n apis.Node, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(toYAML(n))
	case FormatJSON:
		return json.MarshalIndent(plain(n), "", "  ")
	default:
		return nil, fmt.Errorf("%w: cannot write %s", ErrUnknownFormat, f)
	}
}

func plain(n apis.Node) any {
	switch v := n.(type) {
	case *apis.Map:
		om := orderedmap.New[string, any]()
		v.Range(func(k string, c apis.Node) bool {
			om.Set(k, plain(c))
			return true
		})
		return om
	case apis.List:
		out := make([]any, len(v))
		for i, c := range v {
			out[i] = plain(c)
		}
		return out
	case apis.Reference:
		return v.Raw()
	case apis.Computed:
		return "<computed>"
	case apis.Literal:
		return v.Value
	default:
		return nil
	}
}
