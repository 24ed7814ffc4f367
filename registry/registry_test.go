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

package registry_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/config"
	"dirpx.dev/gridx/diagnostic"
	"dirpx.dev/gridx/registry"
	uref "dirpx.dev/gridx/utils/reflect"
)

// Views.
type labelView struct{ model any }

func (v *labelView) Update(model any) { v.model = model }

type badgeView struct{}

func (badgeView) Update(any) {}

type notAView struct{}

// Models.
type Post struct{}
type Comment struct{}

var (
	tLabel = reflect.TypeOf(&labelView{})
	tBadge = reflect.TypeOf(badgeView{})
	tPost  = reflect.TypeOf(Post{})
)

func TestRegister_AndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	require.NoError(t, reg.Register(tLabel, reflect.TypeOf(&Post{})))

	// pointer and value model types share the canonical key
	m, ok := reg.Lookup(tPost, apis.KindItem)
	require.True(t, ok)
	assert.Equal(t, tPost, m.Model)
	assert.Equal(t, apis.KindItem, m.Kind)
	assert.Equal(t, tLabel, m.View.Type)
	assert.Equal(t, "registry_test.labelView", m.View.ReuseIdentifier)
	assert.Equal(t, apis.OriginClass, m.View.Origin)

	_, ok = reg.Lookup(reflect.TypeOf(&Post{}), apis.KindItem)
	assert.True(t, ok)

	// kinds are separate keys
	_, ok = reg.Lookup(tPost, apis.KindHeader)
	assert.False(t, ok)

	assert.Equal(t, 1, reg.Count())
}

func TestRegister_ValueReceiverAndPointerViews(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	// *labelView implements View; labelView only through its pointer.
	require.NoError(t, reg.Register(reflect.TypeOf(labelView{}), tPost))
	require.NoError(t, reg.Register(tBadge, reflect.TypeOf(Comment{})))

	err := reg.Register(reflect.TypeOf(notAView{}), tPost)
	require.ErrorIs(t, err, registry.ErrNotAView)
}

func TestRegister_Options(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	require.NoError(t, reg.Register(tBadge, tPost,
		registry.WithKind(apis.KindFooter),
		registry.WithReuseIdentifier("post-footer"),
		registry.WithLayout("PostFooter"),
	))

	m, ok := reg.Lookup(tPost, apis.KindFooter)
	require.True(t, ok)
	assert.Equal(t, "post-footer", m.View.ReuseIdentifier)
	assert.Equal(t, apis.OriginLayout, m.View.Origin)
	assert.Equal(t, "PostFooter", m.View.Layout)
}

// Intentional but surprising: a second registration for the same pair
// replaces the first without failing.
func TestRegister_DuplicateSilentlyReplaces(t *testing.T) {
	var sink diagnostic.Collector
	reg := registry.New(config.DefaultConfig(), registry.WithSink(&sink))

	require.NoError(t, reg.Register(tLabel, tPost))
	require.NoError(t, reg.Register(tBadge, reflect.TypeOf(Comment{})))
	require.NoError(t, reg.Register(tBadge, tPost))

	m, ok := reg.Lookup(tPost, apis.KindItem)
	require.True(t, ok)
	assert.Equal(t, tBadge, m.View.Type)
	assert.Equal(t, 2, reg.Count())

	// replacement keeps the original registration slot
	entries := reg.Entries()
	assert.Equal(t, tPost, entries[0].Model)
	assert.Equal(t, tBadge, entries[0].View.Type)

	assert.Equal(t, []string{diagnostic.CodeMappingReplaced}, sink.Codes())
	assert.Empty(t, sink.Errors)
	assert.Empty(t, sink.Warnings)
}

func TestRegister_IdempotentSameView(t *testing.T) {
	var sink diagnostic.Collector
	reg := registry.New(config.DefaultConfig(), registry.WithSink(&sink))

	require.NoError(t, reg.Register(tLabel, tPost))
	require.NoError(t, reg.Register(tLabel, tPost))

	assert.Equal(t, 1, reg.Count())
	assert.Empty(t, sink.All)
}

func TestRegister_StrictConflict(t *testing.T) {
	reg := registry.New(config.NewConfig(config.WithStrictRegistration(true)))

	require.NoError(t, reg.Register(tLabel, tPost))
	require.NoError(t, reg.Register(tLabel, tPost))
	err := reg.Register(tBadge, reflect.TypeOf(&Post{}))
	require.ErrorIs(t, err, registry.ErrConflictingRegistration)

	m, _ := reg.Lookup(tPost, apis.KindItem)
	assert.Equal(t, tLabel, m.View.Type)
}

func TestRegister_Errors(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	require.ErrorIs(t, reg.Register(nil, tPost), registry.ErrNilType)
	require.ErrorIs(t, reg.Register(tLabel, nil), registry.ErrNilType)

	err := reg.Register(tLabel, reflect.TypeOf(func() {}))
	require.ErrorIs(t, err, uref.ErrReflectTypeNotNamed)
	assert.True(t, strings.HasPrefix(err.Error(), "gridx(registry): register"))
}

func TestRegister_ClassClusterKey(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	require.NoError(t, reg.Register(tLabel, reflect.TypeOf(0)))

	for _, typ := range []reflect.Type{
		reflect.TypeOf(int64(0)),
		reflect.TypeOf(float32(0)),
		reflect.TypeOf(true),
	} {
		m, ok := reg.Lookup(typ, apis.KindItem)
		require.True(t, ok, "Lookup(%v)", typ)
		assert.Equal(t, uref.Number, m.Model)
	}
}

func TestDeclareAndAncestors(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	require.NoError(t, reg.Declare(reflect.TypeOf(&Comment{}), tPost))
	assert.Equal(t, []reflect.Type{tPost}, reg.Ancestors(reflect.TypeOf(Comment{})))
	assert.Equal(t, []apis.Declaration{{Child: reflect.TypeOf(Comment{}), Parent: tPost}}, reg.Declarations())

	err := reg.Declare(tPost, reflect.TypeOf(Comment{}))
	require.True(t, errors.Is(err, uref.ErrHierarchyCycle), "got %v", err)

	require.ErrorIs(t, reg.Declare(nil, tPost), registry.ErrNilType)
	assert.Nil(t, reg.Ancestors(nil))
}

func TestEntriesAndReset(t *testing.T) {
	reg := registry.New(config.DefaultConfig())
	require.NoError(t, reg.Declare(reflect.TypeOf(Comment{}), tPost))

	require.NoError(t, reg.Register(tLabel, tPost))
	require.NoError(t, reg.Register(tBadge, reflect.TypeOf(Comment{})))

	entries := reg.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, tPost, entries[0].Model)
	assert.Equal(t, reflect.TypeOf(Comment{}), entries[1].Model)

	// snapshot is detached
	entries[0].Kind = "mutated"
	m, _ := reg.Lookup(tPost, apis.KindItem)
	assert.Equal(t, apis.KindItem, m.Kind)

	reg.Reset()

	assert.Zero(t, reg.Count())
	_, ok := reg.Lookup(tPost, apis.KindItem)
	assert.False(t, ok)
	// declarations survive Reset
	assert.Len(t, reg.Declarations(), 1)
}

func TestLookupNilAndUnknown(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	_, ok := reg.Lookup(nil, apis.KindItem)
	assert.False(t, ok)
	_, ok = reg.Lookup(tPost, apis.KindItem)
	assert.False(t, ok)
}

func TestOptionsOf_RoundTrip(t *testing.T) {
	src := registry.New(config.DefaultConfig())
	require.NoError(t, src.Register(tBadge, tPost, registry.WithKind("badge"), registry.WithLayout("Badge")))

	m := src.Entries()[0]
	dst := registry.New(config.DefaultConfig())
	require.NoError(t, dst.Register(m.View.Type, m.Model, registry.OptionsOf(m)...))

	assert.Equal(t, src.Entries(), dst.Entries())
}
