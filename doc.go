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

// Package gridx binds arbitrary data models to reusable view types for a
// sectioned grid surface, and keeps that surface in sync with model mutations
// through batched, animated updates.
//
// # Design
//
// A Manager owns, for one hosting controller:
//
//   - Storage: an ordered sequence of sections, each an ordered sequence of
//     model items plus supplementary (header, footer, ...) models. Every
//     mutation call is a transaction; Storage.Batch merges several calls into
//     one. At the end of a transaction the storage diffs its state against
//     the snapshot taken at the start and hands one apis.Update to the
//     apis.Updater. Deleted and updated entries are indexed against the layout
//     before the transaction, inserted ones against the layout after it, and
//     a removal followed by an insertion of an equal item becomes a move.
//
//   - Registry: (model type, kind) -> view mappings. Model types are
//     canonicalized before lookup, so every string-like type shares one key,
//     as does every number-like, slice-like and map-like type, and pointers
//     are stripped.
//
//   - Resolver: finds the mapping for a model. The default chain tries the
//     exact type, then its ancestors nearest first, then interface mappings
//     in registration order. Ancestry comes from Declare, or from struct
//     embedding in the first field.
//
//   - Builder: constructs Registry and Resolver for a Config and migrates
//     mappings when the Config or Builder changes. Layers installed with
//     SetRegistry / SetResolver are pinned and left alone.
//
// # Errors and diagnostics
//
// Storage misuse (out-of-range positions, missing or nil items, duplicate
// reloads, mutation during update delivery) never fails: the call is
// skipped and a diagnostic.Diagnostic is reported to the configured sink.
// A model with no mapping anywhere in its ancestry is a resolution error
// (resolver.ErrNoMapping) returned to the caller, since no view can render it.
//
// # Usage
//
//	m := gridx.New(
//		gridx.WithProvider(provider),
//		gridx.WithUpdater(updater.New(surface)),
//		gridx.WithSink(diagnostic.NewLogSink(logger)),
//	)
//	_ = gridx.Register[*ArticleCell, Article](m)
//	_ = gridx.Register[*TitleHeader, string](m, registry.WithKind(apis.KindHeader))
//
//	m.Storage().SetSupplementaryModel("News", apis.KindHeader, 0)
//	m.Storage().AddItems([]any{a1, a2}, 0)
//
//	cell, err := m.CellAt(apis.At(0, 1))
//
// Nothing in this module is safe for concurrent use; every component is
// owned by the goroutine driving the surface.
package gridx
