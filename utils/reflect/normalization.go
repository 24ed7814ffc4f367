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

package reflect

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/big"
	"reflect"
	"strings"
	"sync"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/config"
)

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping
	// pointers) is neither named nor a builtin value type (e.g., func,
	// anonymous struct, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no canonical form")
)

// Canonical types of the builtin value families. Every member of a family
// resolves to the same registry key.
var (
	// String covers string and the mutable string builders.
	String = reflect.TypeFor[string]()
	// Number covers every builtin numeric kind, bool, math/big numbers and json.Number.
	Number = reflect.TypeFor[float64]()
	// Array covers every unnamed slice and array type.
	Array = reflect.TypeFor[[]any]()
	// Dictionary covers every unnamed map type and sync.Map.
	Dictionary = reflect.TypeFor[map[string]any]()
)

// clusters maps library types that are mutable or specialized variants of a
// builtin value family to that family's canonical type. Not configurable.
var clusters = map[reflect.Type]reflect.Type{
	reflect.TypeFor[strings.Builder]():  String,
	reflect.TypeFor[*strings.Builder](): String,
	reflect.TypeFor[bytes.Buffer]():     String,
	reflect.TypeFor[*bytes.Buffer]():    String,
	reflect.TypeFor[json.Number]():      Number,
	reflect.TypeFor[big.Int]():          Number,
	reflect.TypeFor[*big.Int]():         Number,
	reflect.TypeFor[big.Float]():        Number,
	reflect.TypeFor[*big.Float]():       Number,
	reflect.TypeFor[big.Rat]():          Number,
	reflect.TypeFor[*big.Rat]():         Number,
	reflect.TypeFor[sync.Map]():         Dictionary,
	reflect.TypeFor[*sync.Map]():        Dictionary,
}

// Normalize returns the registry key for t.
//
// Canonicalization policy:
//   - cluster types (strings.Builder, bytes.Buffer, math/big, json.Number,
//     sync.Map, and pointers to them) -> their family's canonical type;
//   - ptr -> Elem(), at most cfg.MaxUnwrap times;
//   - builtin string kinds -> String; numeric kinds and bool -> Number;
//     unnamed slices and arrays -> Array; unnamed maps -> Dictionary;
//   - named types -> themselves; anything else -> ErrReflectTypeNotNamed.
//
// Normalize is idempotent: canonical types normalize to themselves.
// If MaxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, cfg apis.Config) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	maxUnwrap := cfg.MaxUnwrap
	if maxUnwrap <= 0 {
		maxUnwrap = config.DefaultMaxUnwrap
	}

	for i := 0; ; i++ {
		if c, ok := clusters[t]; ok {
			return c, nil
		}
		if t.Kind() != reflect.Pointer {
			break
		}
		if i >= maxUnwrap {
			return nil, ErrReflectTypeNotNamed
		}
		t = t.Elem()
	}

	if t.PkgPath() != "" {
		return t, nil
	}

	// Builtin or unnamed from here on.
	switch t.Kind() {
	case reflect.String:
		return String, nil
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return Number, nil
	case reflect.Slice, reflect.Array:
		return Array, nil
	case reflect.Map:
		return Dictionary, nil
	}

	// Remaining builtin named types, e.g. error.
	if t.Name() != "" {
		return t, nil
	}
	return nil, ErrReflectTypeNotNamed
}
