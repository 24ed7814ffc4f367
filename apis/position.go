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

import "fmt"

// Position addresses a model item by zero-based section and item index.
// Positions are not stable identifiers: they shift when items or sections
// ahead of them are inserted, deleted or moved.
type Position struct {
	// Section is the zero-based section index.
	Section int
	// Item is the zero-based item index within the section.
	Item int
}

// At is shorthand for Position{Section: section, Item: item}.
func At(section, item int) Position {
	return Position{Section: section, Item: item}
}

// String renders the position as "[section,item]".
func (p Position) String() string {
	return fmt.Sprintf("[%d,%d]", p.Section, p.Item)
}

// Less orders positions section-major.
func (p Position) Less(o Position) bool {
	if p.Section != o.Section {
		return p.Section < o.Section
	}
	return p.Item < o.Item
}

// ItemMove is a single item relocation. From is expressed against the layout
// before the transaction, To against the layout after it.
type ItemMove struct {
	From Position
	To   Position
}

// SectionMove is a single section relocation, indexed like ItemMove.
type SectionMove struct {
	From int
	To   int
}
