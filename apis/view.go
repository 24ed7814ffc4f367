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

package apis

import "reflect"

// Well-known kinds. KindItem is the default kind and denotes ordinary item
// views; every other kind denotes a supplementary view.
const (
	KindItem   = ""
	KindHeader = "header"
	KindFooter = "footer"
)

// View is the uniform update contract every reusable view implements.
// The view needs no knowledge of which model types map to it.
type View interface {
	// Update binds model to the view.
	Update(model any)
}

// ModelReader is an optional View capability that returns the currently bound
// model. The core never requires it; callers check for it before use.
type ModelReader interface {
	Model() any
}

// ViewProvider supplies reusable view instances (the dequeue collaborator).
type ViewProvider interface {
	// DequeueCell returns an item view for reuseIdentifier at position at.
	DequeueCell(reuseIdentifier string, at Position) (View, error)
	// DequeueSupplementary returns a supplementary view of kind for
	// reuseIdentifier at position at.
	DequeueSupplementary(kind, reuseIdentifier string, at Position) (View, error)
}

// Origin tells where a view's resources come from.
type Origin int

const (
	// OriginClass views are built from their type alone.
	OriginClass Origin = iota
	// OriginLayout views are instantiated from a compiled layout resource.
	OriginLayout
)

// String returns a human-readable origin name.
func (o Origin) String() string {
	switch o {
	case OriginClass:
		return "class"
	case OriginLayout:
		return "layout"
	default:
		return "unknown"
	}
}

// ViewType describes the view a model resolves to.
type ViewType struct {
	// Type is the view's Go type.
	Type reflect.Type
	// ReuseIdentifier is handed to the ViewProvider when dequeuing.
	ReuseIdentifier string
	// Origin is the resource origin of the view.
	Origin Origin
	// Layout names the layout resource when Origin is OriginLayout.
	Layout string
}
