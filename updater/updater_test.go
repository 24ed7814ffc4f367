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

package updater_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/diagnostic"
	"dirpx.dev/gridx/storage"
	"dirpx.dev/gridx/updater"
)

// surface records every call as a short string.
type surface struct {
	calls   []string
	inBatch bool
}

func (s *surface) record(format string, args ...any) {
	call := fmt.Sprintf(format, args...)
	if s.inBatch {
		call = "  " + call
	}
	s.calls = append(s.calls, call)
}

func (s *surface) PerformBatchUpdates(updates func()) {
	s.record("batch")
	s.inBatch = true
	updates()
	s.inBatch = false
}

func (s *surface) InsertItems(at []apis.Position)  { s.record("insert items %v", at) }
func (s *surface) DeleteItems(at []apis.Position)  { s.record("delete items %v", at) }
func (s *surface) ReloadItems(at []apis.Position)  { s.record("reload items %v", at) }
func (s *surface) MoveItem(from, to apis.Position) { s.record("move item %v %v", from, to) }
func (s *surface) InsertSections(at []int)         { s.record("insert sections %v", at) }
func (s *surface) DeleteSections(at []int)         { s.record("delete sections %v", at) }
func (s *surface) ReloadSections(at []int)         { s.record("reload sections %v", at) }
func (s *surface) MoveSection(from, to int)        { s.record("move section %d %d", from, to) }
func (s *surface) ReloadData()                     { s.record("reload data") }

func fullUpdate() apis.Update {
	return apis.Update{
		ID:               uuid.New(),
		DeletedSections:  []int{4},
		InsertedSections: []int{3},
		UpdatedSections:  []int{2},
		MovedSections:    []apis.SectionMove{{From: 0, To: 1}},
		DeletedItems:     []apis.Position{apis.At(0, 0)},
		InsertedItems:    []apis.Position{apis.At(0, 1)},
		UpdatedItems:     []apis.Position{apis.At(1, 0)},
		MovedItems:       []apis.ItemMove{{From: apis.At(1, 1), To: apis.At(1, 2)}},
	}
}

func TestPerformUpdate_Order(t *testing.T) {
	s := &surface{}
	up := updater.New(s)

	up.PerformUpdate(fullUpdate())

	assert.Equal(t, []string{
		"batch",
		"  insert items [[0,1]]",
		"  delete items [[0,0]]",
		"  reload items [[1,0]]",
		"  move item [1,1] [1,2]",
		"  insert sections [3]",
		"  delete sections [4]",
		"  reload sections [2]",
		"  move section 0 1",
		"reload data",
	}, s.calls)
}

func TestPerformUpdate_Options(t *testing.T) {
	s := &surface{}
	var reloaded []apis.Position
	var hooks []string
	up := updater.New(s,
		updater.AnimateMoveAsDeleteAndInsert(true),
		updater.ReloadOnSectionChanges(false),
		updater.ReloadItem(func(p apis.Position) { reloaded = append(reloaded, p) }),
		updater.WillUpdate(func(u *apis.Update) { hooks = append(hooks, fmt.Sprintf("will %v", u != nil)) }),
		updater.DidUpdate(func(u *apis.Update) { hooks = append(hooks, fmt.Sprintf("did %v", u != nil)) }),
	)

	up.PerformUpdate(fullUpdate())

	assert.Equal(t, []string{
		"batch",
		"  insert items [[0,1]]",
		"  delete items [[0,0]]",
		"  delete items [[1,1]]",
		"  insert items [[1,2]]",
		"  insert sections [3]",
		"  delete sections [4]",
		"  reload sections [2]",
		"  move section 0 1",
	}, s.calls)
	assert.Equal(t, []apis.Position{apis.At(1, 0)}, reloaded)

	up.ReloadData()
	assert.Equal(t, "reload data", s.calls[len(s.calls)-1])
	assert.Equal(t, []string{"will true", "did true", "will false", "did false"}, hooks)
}

func TestPerformUpdate_InProgress(t *testing.T) {
	s := &surface{}
	var up *updater.Updater
	var seen []string
	observe := func(at string) { seen = append(seen, fmt.Sprintf("%s %v", at, up.InProgress())) }
	up = updater.New(s,
		updater.WillUpdate(func(*apis.Update) { observe("will") }),
		updater.ReloadItem(func(apis.Position) { observe("reload item") }),
		updater.DidUpdate(func(*apis.Update) { observe("did") }),
	)

	assert.False(t, up.InProgress())
	up.PerformUpdate(apis.Update{ID: uuid.New(), UpdatedItems: []apis.Position{apis.At(0, 0)}})

	assert.Equal(t, []string{"will false", "reload item true", "did false"}, seen)
	assert.False(t, up.InProgress())
}

func TestPerformUpdate_InProgressClearedAfterPanic(t *testing.T) {
	up := updater.New(&surface{}, updater.ReloadItem(func(apis.Position) { panic("surface gone") }))

	assert.Panics(t, func() {
		up.PerformUpdate(apis.Update{ID: uuid.New(), UpdatedItems: []apis.Position{apis.At(0, 0)}})
	})
	assert.False(t, up.InProgress())
}

func TestPerformUpdate_ItemOnlySkipsReload(t *testing.T) {
	s := &surface{}
	up := updater.New(s)

	up.PerformUpdate(apis.Update{ID: uuid.New(), InsertedItems: []apis.Position{apis.At(0, 0)}})

	assert.Equal(t, []string{"batch", "  insert items [[0,0]]"}, s.calls)
}

func TestPerformUpdate_SingleUse(t *testing.T) {
	s := &surface{}
	var col diagnostic.Collector
	up := updater.New(s, updater.WithSink(&col), updater.ReloadOnSectionChanges(false))

	u := apis.Update{ID: uuid.New(), DeletedItems: []apis.Position{apis.At(0, 0)}}
	up.PerformUpdate(u)
	up.PerformUpdate(u)

	assert.Equal(t, []string{"batch", "  delete items [[0,0]]"}, s.calls)
	require.Equal(t, []string{diagnostic.CodeDuplicate}, col.Codes())
	assert.Equal(t, u.ID, col.All[0].Transaction)
}

func TestUpdater_DrivenByStorage(t *testing.T) {
	s := &surface{}
	m := storage.New(storage.WithUpdater(updater.New(s)))

	m.AddItems([]any{"a", "b", "c"}, 0)
	s.calls = nil

	m.Batch(func() {
		m.RemoveItem("b")
		m.MoveItem(apis.At(0, 1), apis.At(0, 0))
		m.AddItem("d", 0)
	})

	assert.Equal(t, []string{
		"batch",
		"  insert items [[0,2]]",
		"  delete items [[0,1]]",
		"  move item [0,2] [0,0]",
	}, s.calls)

	m.SetItems([]any{"x"}, 0)
	assert.Equal(t, "reload data", s.calls[len(s.calls)-1])
}
