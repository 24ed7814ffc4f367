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

package gridx

import (
	"errors"
	"fmt"
	"reflect"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/builder"
	"dirpx.dev/gridx/config"
	"dirpx.dev/gridx/diagnostic"
	"dirpx.dev/gridx/resolver"
	"dirpx.dev/gridx/storage"
	uref "dirpx.dev/gridx/utils/reflect"
)

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("gridx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("gridx: builder returned nil resolver")
	// ErrNoProvider is returned when a view is requested before a
	// ViewProvider has been set.
	ErrNoProvider = errors.New("gridx: no view provider")
	// ErrDequeue wraps failures of the ViewProvider.
	ErrDequeue = errors.New("gridx: dequeue failed")
)

// Option configures a Manager at construction.
type Option func(*Manager)

// WithConfig sets the configuration shared by storage, registry and resolver.
func WithConfig(cfg apis.Config) Option {
	return func(m *Manager) {
		m.cfg = config.Sanitize(cfg)
	}
}

// WithBuilder sets the builder used to construct registry and resolver.
func WithBuilder(b apis.Builder) Option {
	return func(m *Manager) {
		if b != nil {
			m.bld = b
		}
	}
}

// WithSink routes the diagnostics of every owned component to s.
func WithSink(s diagnostic.Sink) Option {
	return func(m *Manager) {
		m.sink = diagnostic.OrDiscard(s)
	}
}

// WithProvider sets the view provider used by ViewFor.
func WithProvider(p apis.ViewProvider) Option {
	return func(m *Manager) {
		m.provider = p
	}
}

// WithUpdater sets the storage update delegate.
func WithUpdater(u apis.Updater) Option {
	return func(m *Manager) {
		m.updater = u
	}
}

// Manager binds one sectioned storage to one view registry for a hosting
// controller. It is not safe for concurrent use.
type Manager struct {
	cfg      apis.Config
	bld      apis.Builder
	sink     diagnostic.Sink
	provider apis.ViewProvider
	updater  apis.Updater

	reg apis.Registry
	res apis.Resolver
	// preg and pres mark layers set explicitly; they are not rebuilt.
	preg bool
	pres bool

	storage *storage.Memory
}

// New constructs a Manager. It panics with ErrNilRegistry or ErrNilResolver
// if the builder fails to produce them.
func New(opts ...Option) *Manager {
	m := &Manager{
		cfg:  config.DefaultConfig(),
		bld:  builder.New(),
		sink: diagnostic.Discard,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.rebuild(nil, nil)
	m.storage = storage.New(
		storage.WithConfig(m.cfg),
		storage.WithSink(m.sink),
		storage.WithUpdater(m.updater),
	)
	return m
}

// rebuild constructs every non-pinned layer from the current config and builder.
func (m *Manager) rebuild(prevReg apis.Registry, prevRes apis.Resolver) {
	nreg := m.reg
	if !m.preg {
		nreg = m.bld.BuildRegistry(m.cfg, prevReg, m.sink)
	}
	nres := m.res
	if !m.pres {
		nres = m.bld.BuildResolver(m.cfg, nreg, prevRes, m.sink)
	}

	// Ensure non-nil reg and res.
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}
	m.reg, m.res = nreg, nres
}

// Storage returns the managed storage.
func (m *Manager) Storage() *storage.Memory {
	return m.storage
}

// Config returns the current configuration.
func (m *Manager) Config() apis.Config {
	return m.cfg
}

// SetConfig replaces the configuration. Non-pinned registry and resolver are
// rebuilt, keeping every mapping and declaration.
func (m *Manager) SetConfig(cfg apis.Config) {
	m.cfg = config.Sanitize(cfg)
	m.storage.SetConfig(m.cfg)
	m.rebuild(m.reg, m.res)
}

// Builder returns the current builder.
func (m *Manager) Builder() apis.Builder {
	return m.bld
}

// SetBuilder replaces the builder and rebuilds non-pinned layers with it.
func (m *Manager) SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}
	m.bld = b
	m.rebuild(m.reg, m.res)
}

// Registry returns the current registry.
func (m *Manager) Registry() apis.Registry {
	return m.reg
}

// SetRegistry installs reg and pins it: it is no longer rebuilt on config or
// builder changes. A non-pinned resolver is rebuilt over it.
func (m *Manager) SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}
	m.reg = reg
	m.preg = true
	m.rebuild(nil, m.res)
}

// UnpinRegistry lets the registry be rebuilt again.
func (m *Manager) UnpinRegistry() {
	m.preg = false
}

// Resolver returns the current resolver.
func (m *Manager) Resolver() apis.Resolver {
	return m.res
}

// SetResolver installs res and pins it.
func (m *Manager) SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}
	m.res = res
	m.pres = true
}

// UnpinResolver lets the resolver be rebuilt again.
func (m *Manager) UnpinResolver() {
	m.pres = false
}

// SetProvider replaces the view provider.
func (m *Manager) SetProvider(p apis.ViewProvider) {
	m.provider = p
}

// SetUpdater replaces the storage update delegate.
func (m *Manager) SetUpdater(u apis.Updater) {
	m.updater = u
	m.storage.SetUpdater(u)
}

// Register maps model to view. See apis.Registry.
func (m *Manager) Register(view, model reflect.Type, opts ...apis.MappingOption) error {
	return m.reg.Register(view, model, opts...)
}

// Declare records parent as the nearest ancestor of child.
func (m *Manager) Declare(child, parent reflect.Type) error {
	return m.reg.Declare(child, parent)
}

// Register maps model type M to view type V on m.
func Register[V apis.View, M any](m *Manager, opts ...apis.MappingOption) error {
	return m.Register(reflect.TypeFor[V](), reflect.TypeFor[M](), opts...)
}

// Declare records P as the nearest ancestor of C on m.
func Declare[C, P any](m *Manager) error {
	return m.Declare(reflect.TypeFor[C](), reflect.TypeFor[P]())
}

// ResolveView returns the mapping for model and kind. Failures are reported
// to the sink before being returned.
func (m *Manager) ResolveView(model any, kind string) (apis.Mapping, error) {
	mp, err := m.res.Resolve(model, kind)
	if err != nil {
		m.reportResolve(model, kind, nil, err)
		return apis.Mapping{}, err
	}
	return mp, nil
}

// ViewFor resolves model, dequeues a view for it at position at and binds the
// model to the view.
func (m *Manager) ViewFor(model any, at apis.Position, kind string) (apis.View, error) {
	mp, err := m.res.Resolve(model, kind)
	if err != nil {
		m.reportResolve(model, kind, &at, err)
		return nil, err
	}
	if m.provider == nil {
		return nil, ErrNoProvider
	}

	var v apis.View
	if kind == apis.KindItem {
		v, err = m.provider.DequeueCell(mp.View.ReuseIdentifier, at)
	} else {
		v, err = m.provider.DequeueSupplementary(kind, mp.View.ReuseIdentifier, at)
	}
	if err == nil && v == nil {
		err = fmt.Errorf("provider returned no view for %q", mp.View.ReuseIdentifier)
	}
	if err != nil {
		m.sink.Report(diagnostic.Diagnostic{
			Severity: diagnostic.SeverityError,
			Code:     diagnostic.CodeDequeueFailed,
			Message:  err.Error(),
			Position: diagnostic.At(at),
			Kind:     kind,
			Model:    diagnostic.Describe(model),
		})
		return nil, fmt.Errorf("%w: %w", ErrDequeue, err)
	}

	v.Update(model)
	return v, nil
}

// CellAt returns the populated item view for the item stored at p.
func (m *Manager) CellAt(p apis.Position) (apis.View, error) {
	model, ok := m.storage.ItemAt(p)
	if !ok {
		m.reportResolve(nil, apis.KindItem, &p, resolver.ErrNilModel)
		return nil, resolver.ErrNilModel
	}
	return m.ViewFor(model, p, apis.KindItem)
}

// SupplementaryAt returns the populated supplementary view of kind for section.
func (m *Manager) SupplementaryAt(kind string, section int) (apis.View, error) {
	at := apis.At(section, 0)
	model, ok := m.storage.SupplementaryModel(kind, section)
	if !ok || model == nil {
		m.reportResolve(nil, kind, &at, resolver.ErrNilModel)
		return nil, resolver.ErrNilModel
	}
	return m.ViewFor(model, at, kind)
}

func (m *Manager) reportResolve(model any, kind string, at *apis.Position, err error) {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     diagnostic.CodeNoMapping,
		Message:  err.Error(),
		Position: at,
		Kind:     kind,
		Model:    diagnostic.Describe(model),
	}
	var rerr *resolver.Error
	switch {
	case errors.Is(err, resolver.ErrNilModel):
		d.Code = diagnostic.CodeNilModel
		d.Model = ""
	case errors.As(err, &rerr):
		d.Model = uref.Name(rerr.Model)
		d.Suggestions = rerr.Suggestions
	}
	m.sink.Report(d)
}
