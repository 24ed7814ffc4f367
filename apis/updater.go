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

// Updater is the presenting surface's side of a storage transaction
// (the update delegate).
//
// Delivery is synchronous and happens before the mutating call returns.
// Implementations must not mutate the Storage that is delivering to them;
// such calls are rejected.
type Updater interface {
	// PerformUpdate applies u as one atomic, animated operation: deletions and
	// move sources against the pre-transaction layout, insertions and move
	// targets against the post-transaction layout.
	PerformUpdate(u Update)

	// ReloadData is requested instead of PerformUpdate when storage contents
	// were replaced wholesale and no meaningful diff exists.
	ReloadData()
}

// Surface is the batch-update host an Updater drives, e.g. a grid widget.
// All index arguments follow the Update two-phase contract.
type Surface interface {
	// PerformBatchUpdates runs updates as a single animated transaction.
	PerformBatchUpdates(updates func())

	InsertItems(at []Position)
	DeleteItems(at []Position)
	ReloadItems(at []Position)
	MoveItem(from, to Position)

	InsertSections(at []int)
	DeleteSections(at []int)
	ReloadSections(at []int)
	MoveSection(from, to int)

	// ReloadData discards all cached layout and re-queries everything.
	ReloadData()
}
