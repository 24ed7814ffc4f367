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

package gridx_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/gridx"
	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/config"
	"dirpx.dev/gridx/diagnostic"
	"dirpx.dev/gridx/registry"
	"dirpx.dev/gridx/resolver"
)

type Post struct{ Title string }
type PinnedPost struct {
	Post
	Until string
}
type Poll struct{}

// boundView is shared by every test view; it remembers the bound model.
type boundView struct {
	id    string
	model any
}

func (v *boundView) Update(model any) { v.model = model }
func (v *boundView) Model() any       { return v.model }

type PostCell struct{ boundView }
type PinnedCell struct{ boundView }
type TextCell struct{ boundView }
type TitleHeader struct{ boundView }

// provider hands out a fresh view per dequeue and records the requests.
type provider struct {
	calls []string
	fail  error
}

func (p *provider) DequeueCell(id string, at apis.Position) (apis.View, error) {
	p.calls = append(p.calls, "cell "+id+" "+at.String())
	if p.fail != nil {
		return nil, p.fail
	}
	return &boundView{id: id}, nil
}

func (p *provider) DequeueSupplementary(kind, id string, at apis.Position) (apis.View, error) {
	p.calls = append(p.calls, kind+" "+id+" "+at.String())
	if p.fail != nil {
		return nil, p.fail
	}
	return &boundView{id: id}, nil
}

func newManager(t *testing.T, opts ...gridx.Option) (*gridx.Manager, *provider, *diagnostic.Collector) {
	t.Helper()
	p := &provider{}
	col := &diagnostic.Collector{}
	opts = append([]gridx.Option{gridx.WithProvider(p), gridx.WithSink(col)}, opts...)
	return gridx.New(opts...), p, col
}

func TestViewFor_BindsModel(t *testing.T) {
	m, p, _ := newManager(t)
	require.NoError(t, gridx.Register[*PostCell, Post](m))

	post := Post{Title: "hello"}
	v, err := m.ViewFor(post, apis.At(0, 3), apis.KindItem)
	require.NoError(t, err)

	reader, ok := v.(apis.ModelReader)
	require.True(t, ok)
	assert.Equal(t, post, reader.Model())
	assert.Equal(t, []string{"cell gridx_test.PostCell [0,3]"}, p.calls)
}

func TestCellAt_NearestAncestor(t *testing.T) {
	m, p, _ := newManager(t)
	require.NoError(t, gridx.Register[*PostCell, Post](m))

	m.Storage().AddItems([]any{Post{}, &PinnedPost{}}, 0)

	_, err := m.CellAt(apis.At(0, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"cell gridx_test.PostCell [0,1]"}, p.calls)

	require.NoError(t, gridx.Register[*PinnedCell, PinnedPost](m))
	_, err = m.CellAt(apis.At(0, 1))
	require.NoError(t, err)
	assert.Equal(t, "cell gridx_test.PinnedCell [0,1]", p.calls[1])
}

func TestCellAt_Failures(t *testing.T) {
	m, _, col := newManager(t)
	m.Storage().AddItem(Poll{}, 0)

	_, err := m.CellAt(apis.At(0, 5))
	assert.ErrorIs(t, err, resolver.ErrNilModel)

	_, err = m.CellAt(apis.At(0, 0))
	require.ErrorIs(t, err, resolver.ErrNoMapping)

	assert.Equal(t, []string{diagnostic.CodeNilModel, diagnostic.CodeNoMapping}, col.Codes())
	assert.Equal(t, "gridx_test.Poll", col.All[1].Model)
	require.NotNil(t, col.All[1].Position)
	assert.Equal(t, apis.At(0, 0), *col.All[1].Position)
}

func TestResolveView_ReportsSuggestions(t *testing.T) {
	m, _, col := newManager(t)
	require.NoError(t, gridx.Register[*PostCell, Post](m))
	type Pots struct{}

	_, err := m.ResolveView(Pots{}, apis.KindItem)
	require.ErrorIs(t, err, resolver.ErrNoMapping)
	require.Len(t, col.Errors, 1)
	assert.Equal(t, []string{"gridx_test.Post"}, col.Errors[0].Suggestions)
}

func TestSupplementaryAt(t *testing.T) {
	m, p, col := newManager(t)
	require.NoError(t, gridx.Register[*TitleHeader, string](m, registry.WithKind(apis.KindHeader)))
	require.NoError(t, gridx.Register[*TextCell, string](m))

	m.Storage().SetSupplementaryModel("News", apis.KindHeader, 0)
	m.Storage().AddItem("first", 0)

	v, err := m.SupplementaryAt(apis.KindHeader, 0)
	require.NoError(t, err)
	assert.Equal(t, "News", v.(apis.ModelReader).Model())

	_, err = m.CellAt(apis.At(0, 0))
	require.NoError(t, err)

	_, err = m.SupplementaryAt(apis.KindFooter, 0)
	assert.ErrorIs(t, err, resolver.ErrNilModel)

	assert.Equal(t, []string{
		"header gridx_test.TitleHeader [0,0]",
		"cell gridx_test.TextCell [0,0]",
	}, p.calls)
	assert.Equal(t, []string{diagnostic.CodeNilModel}, col.Codes())
}

func TestViewFor_ClassClusters(t *testing.T) {
	m, p, _ := newManager(t)
	require.NoError(t, gridx.Register[*TextCell, string](m))

	var sb strings.Builder
	sb.WriteString("mutable")
	_, err := m.ViewFor(&sb, apis.At(0, 0), apis.KindItem)
	require.NoError(t, err)
	_, err = m.ViewFor("immutable", apis.At(0, 1), apis.KindItem)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"cell gridx_test.TextCell [0,0]",
		"cell gridx_test.TextCell [0,1]",
	}, p.calls)
}

func TestViewFor_ProviderErrors(t *testing.T) {
	m := gridx.New()
	require.NoError(t, gridx.Register[*PostCell, Post](m))
	_, err := m.ViewFor(Post{}, apis.At(0, 0), apis.KindItem)
	assert.ErrorIs(t, err, gridx.ErrNoProvider)

	boom := errors.New("boom")
	p := &provider{fail: boom}
	col := &diagnostic.Collector{}
	m = gridx.New(gridx.WithProvider(p), gridx.WithSink(col))
	require.NoError(t, gridx.Register[*PostCell, Post](m))

	_, err = m.ViewFor(Post{}, apis.At(0, 0), apis.KindItem)
	assert.ErrorIs(t, err, gridx.ErrDequeue)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{diagnostic.CodeDequeueFailed}, col.Codes())
}

// A second registration for the same model silently replaces the first.
// Only an info diagnostic records it; strict mode turns it into an error.
func TestRegister_DuplicateSilentlyReplaces(t *testing.T) {
	m, p, col := newManager(t)
	require.NoError(t, gridx.Register[*PostCell, Post](m))
	require.NoError(t, gridx.Register[*PinnedCell, Post](m))

	_, err := m.ViewFor(Post{}, apis.At(0, 0), apis.KindItem)
	require.NoError(t, err)
	assert.Equal(t, []string{"cell gridx_test.PinnedCell [0,0]"}, p.calls)
	assert.False(t, col.HasErrors())
	assert.Equal(t, []string{diagnostic.CodeMappingReplaced}, col.Codes())

	m.SetConfig(config.NewConfig(config.WithStrictRegistration(true)))
	err = gridx.Register[*PostCell, Post](m)
	assert.ErrorIs(t, err, registry.ErrConflictingRegistration)
}

func TestSetConfig_KeepsMappings(t *testing.T) {
	m, _, _ := newManager(t)
	require.NoError(t, gridx.Register[*PostCell, Post](m))
	require.NoError(t, gridx.Declare[Poll, Post](m))
	before := m.Registry()

	m.SetConfig(config.NewConfig(config.WithMaxUnwrap(2)))

	assert.NotSame(t, before, m.Registry())
	assert.Equal(t, 2, m.Config().MaxUnwrap)
	assert.Equal(t, 1, m.Registry().Count())
	_, err := m.ResolveView(Poll{}, apis.KindItem)
	assert.NoError(t, err)
}

func TestSetRegistry_Pins(t *testing.T) {
	m, _, _ := newManager(t)
	own := registry.New(config.DefaultConfig())
	require.NoError(t, own.Register(reflect.TypeFor[*PostCell](), reflect.TypeFor[Post]()))

	m.SetRegistry(own)
	m.SetConfig(config.DefaultConfig())
	assert.Same(t, own, m.Registry())

	_, err := m.ResolveView(Post{}, apis.KindItem)
	assert.NoError(t, err)

	m.UnpinRegistry()
	m.SetConfig(config.DefaultConfig())
	assert.NotSame(t, own, m.Registry())
	assert.Equal(t, 1, m.Registry().Count())
}

type stubResolver struct{}

func (stubResolver) Resolve(any, string) (apis.Mapping, error) {
	return apis.Mapping{View: apis.ViewType{ReuseIdentifier: "stub"}}, nil
}

func (stubResolver) ResolveType(reflect.Type, string) (apis.Mapping, error) {
	return apis.Mapping{View: apis.ViewType{ReuseIdentifier: "stub"}}, nil
}

func TestSetResolver_Pins(t *testing.T) {
	m, p, _ := newManager(t)
	m.SetResolver(stubResolver{})
	m.SetConfig(config.DefaultConfig())

	_, err := m.ViewFor(Poll{}, apis.At(0, 0), apis.KindItem)
	require.NoError(t, err)
	assert.Equal(t, []string{"cell stub [0,0]"}, p.calls)

	m.UnpinResolver()
	m.SetConfig(config.DefaultConfig())
	_, err = m.ViewFor(Poll{}, apis.At(0, 0), apis.KindItem)
	assert.ErrorIs(t, err, resolver.ErrNoMapping)
}

type nilBuilder struct{}

func (nilBuilder) BuildRegistry(apis.Config, apis.Registry, any) apis.Registry { return nil }
func (nilBuilder) BuildResolver(apis.Config, apis.Registry, apis.Resolver, any) apis.Resolver {
	return nil
}

func TestNew_NilBuilderOutputPanics(t *testing.T) {
	assert.PanicsWithValue(t, gridx.ErrNilRegistry, func() {
		gridx.New(gridx.WithBuilder(nilBuilder{}))
	})
}

type recorder struct{ updates []apis.Update }

func (r *recorder) PerformUpdate(u apis.Update) { r.updates = append(r.updates, u) }
func (r *recorder) ReloadData()                 {}

func TestSetUpdater(t *testing.T) {
	rec := &recorder{}
	m, _, _ := newManager(t, gridx.WithUpdater(rec))
	m.Storage().AddItem("a", 0)
	require.Len(t, rec.updates, 1)

	other := &recorder{}
	m.SetUpdater(other)
	m.Storage().AddItem("b", 0)
	assert.Len(t, rec.updates, 1)
	assert.Len(t, other.updates, 1)
}
