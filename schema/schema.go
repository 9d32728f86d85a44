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

// Package schema reads record type declarations from YAML, JSON and
// TOML files. Key order in the files is kept in the declared options.
package schema

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dirpx.dev/rpc2/apis"
)

// Format is a schema file encoding.
type Format int

const (
	// FormatYAML also reads JSON documents.
	FormatYAML Format = iota
	FormatJSON
	FormatTOML
)

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Document keys.
const (
	KeyTypes   = "types"
	KeyExtends = "extends"
	KeyOptions = "options"
)

var (
	// ErrInvalidSchema reports a document of the wrong shape.
	ErrInvalidSchema = errors.New("rpc2(schema): invalid schema")
	// ErrUnknownFormat reports a file extension with no decoder.
	ErrUnknownFormat = errors.New("rpc2(schema): unknown format")
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Load reads the schemas declared in the file at path.
func Load(path string) ([]apis.Schema, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	out, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

// Decode reads the schemas declared in r, in document order.
// An empty document declares nothing.
func Decode(r io.Reader, f Format) ([]apis.Schema, error) {
	var (
		doc *apis.Map
		err error
	)
	switch f {
	case FormatYAML, FormatJSON:
		doc, err = decodeYAML(r)
	case FormatTOML:
		doc, err = decodeTOML(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, err
	}
	return schemas(doc)
}

func schemas(doc *apis.Map) ([]apis.Schema, error) {
	if doc == nil {
		return nil, nil
	}
	var err error
	doc.Range(func(k string, _ apis.Node) bool {
		if k != KeyTypes {
			err = fmt.Errorf("%w: unknown key %q", ErrInvalidSchema, k)
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	n, ok := doc.Get(KeyTypes)
	if !ok || isNull(n) {
		return nil, nil
	}
	types, ok := n.(*apis.Map)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a map", ErrInvalidSchema, KeyTypes)
	}

	out := make([]apis.Schema, 0, types.Len())
	types.Range(func(name string, body apis.Node) bool {
		var s apis.Schema
		s, err = declaration(name, body)
		if err != nil {
			return false
		}
		out = append(out, s)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func declaration(name string, body apis.Node) (apis.Schema, error) {
	s := apis.Schema{Name: name}
	if isNull(body) {
		return s, nil
	}
	m, ok := body.(*apis.Map)
	if !ok {
		return s, fmt.Errorf("%w: type %q must be a map", ErrInvalidSchema, name)
	}
	var err error
	m.Range(func(k string, v apis.Node) bool {
		switch k {
		case KeyExtends:
			if isNull(v) {
				return true
			}
			parent, ok := text(v)
			if !ok {
				err = fmt.Errorf("%w: %s.%s must be a string", ErrInvalidSchema, name, KeyExtends)
				return false
			}
			s.Extends = parent
		case KeyOptions:
			if isNull(v) {
				return true
			}
			opts, ok := v.(*apis.Map)
			if !ok {
				err = fmt.Errorf("%w: %s.%s must be a map", ErrInvalidSchema, name, KeyOptions)
				return false
			}
			s.Options = opts
		default:
			err = fmt.Errorf("%w: type %q: unknown key %q", ErrInvalidSchema, name, k)
			return false
		}
		return true
	})
	return s, err
}

func isNull(n apis.Node) bool {
	l, ok := n.(apis.Literal)
	return n == nil || ok && l.Value == nil
}

func text(n apis.Node) (string, bool) {
	switch v := n.(type) {
	case apis.Literal:
		s, ok := v.Value.(string)
		return s, ok
	case apis.Reference:
		return v.Raw(), true
	default:
		return "", false
	}
}
