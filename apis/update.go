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

import "github.com/google/uuid"

// Update is the structural diff produced by Storage for one transaction.
//
// Deleted and updated entries, and the source side of moves, are expressed
// against the storage layout before the transaction. Inserted entries, and
// the target side of moves, are expressed against the layout after it. This is
// the two-phase contract animated batch updates require from the host surface.
//
// An Update is single-use: once delivered to an Updater it must not be applied
// again. ID identifies the transaction that produced it.
type Update struct {
	// ID is the transaction identifier. Diagnostics emitted during the same
	// transaction carry it as well.
	ID uuid.UUID

	// DeletedSections holds pre-transaction indices, ascending.
	DeletedSections []int
	// InsertedSections holds post-transaction indices, ascending.
	InsertedSections []int
	// UpdatedSections holds pre-transaction indices, ascending.
	UpdatedSections []int
	// MovedSections holds explicit section moves ordered by source index.
	MovedSections []SectionMove

	// DeletedItems holds pre-transaction positions, ascending.
	DeletedItems []Position
	// InsertedItems holds post-transaction positions, ascending.
	InsertedItems []Position
	// UpdatedItems holds pre-transaction positions, ascending.
	UpdatedItems []Position
	// MovedItems holds item moves ordered by source position.
	MovedItems []ItemMove
}

// IsEmpty reports whether the update carries no structural change.
func (u Update) IsEmpty() bool {
	return !u.HasSectionChanges() &&
		len(u.DeletedItems) == 0 &&
		len(u.InsertedItems) == 0 &&
		len(u.UpdatedItems) == 0 &&
		len(u.MovedItems) == 0
}

// HasSectionChanges reports whether any section was inserted, deleted,
// updated or moved.
func (u Update) HasSectionChanges() bool {
	return len(u.DeletedSections) > 0 ||
		len(u.InsertedSections) > 0 ||
		len(u.UpdatedSections) > 0 ||
		len(u.MovedSections) > 0
}
