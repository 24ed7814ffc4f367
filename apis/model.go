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

// Equaler lets a model define its own identity for storage lookups
// (remove, replace, reload, position queries and move coalescing).
// Models without it compare with == when their dynamic type is comparable,
// and structurally otherwise.
type Equaler interface {
	Equal(other any) bool
}

// Describer gives a model a human-oriented description used in diagnostics.
// Models without it are described by their dynamic type.
type Describer interface {
	ModelDescription() string
}
