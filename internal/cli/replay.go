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

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dirpx.dev/gridx"
	"dirpx.dev/gridx/apis"
	"dirpx.dev/gridx/internal/script"
	"dirpx.dev/gridx/updater"
)

// ErrUnknownOutput is returned for an unsupported --output value.
var ErrUnknownOutput = errors.New("unknown output format")

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	txStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
	callStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
	viewStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f9e2af"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

type moveReport struct {
	From script.Pos `yaml:"from"`
	To   script.Pos `yaml:"to"`
}

type sectionMoveReport struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// updateReport is one delivery to the surface.
type updateReport struct {
	Transaction      string              `yaml:"transaction,omitempty"`
	Reload           bool                `yaml:"reload,omitempty"`
	DeletedSections  []int               `yaml:"deleted_sections,flow,omitempty"`
	InsertedSections []int               `yaml:"inserted_sections,flow,omitempty"`
	UpdatedSections  []int               `yaml:"updated_sections,flow,omitempty"`
	MovedSections    []sectionMoveReport `yaml:"moved_sections,omitempty"`
	DeletedItems     []script.Pos        `yaml:"deleted_items,omitempty"`
	InsertedItems    []script.Pos        `yaml:"inserted_items,omitempty"`
	UpdatedItems     []script.Pos        `yaml:"updated_items,omitempty"`
	MovedItems       []moveReport        `yaml:"moved_items,omitempty"`
	Surface          []string            `yaml:"surface"`
}

// cellReport is one resolved view in the final grid.
type cellReport struct {
	At    script.Pos `yaml:"at"`
	View  string     `yaml:"view,omitempty"`
	Model any        `yaml:"model"`
	Error string     `yaml:"error,omitempty"`
}

type sectionReport struct {
	Header *cellReport  `yaml:"header,omitempty"`
	Items  []cellReport `yaml:"items"`
	Footer *cellReport  `yaml:"footer,omitempty"`
}

// replayReport is the document printed by replay.
type replayReport struct {
	Updates []*updateReport `yaml:"updates"`
	Grid    []sectionReport `yaml:"grid"`
}

func newUpdateReport(u *apis.Update) *updateReport {
	if u == nil {
		return &updateReport{Reload: true}
	}
	r := &updateReport{
		DeletedSections:  u.DeletedSections,
		InsertedSections: u.InsertedSections,
		UpdatedSections:  u.UpdatedSections,
		DeletedItems:     positions(u.DeletedItems),
		InsertedItems:    positions(u.InsertedItems),
		UpdatedItems:     positions(u.UpdatedItems),
	}
	if u.ID != uuid.Nil {
		r.Transaction = u.ID.String()
	}
	for _, mv := range u.MovedSections {
		r.MovedSections = append(r.MovedSections, sectionMoveReport{From: mv.From, To: mv.To})
	}
	for _, mv := range u.MovedItems {
		r.MovedItems = append(r.MovedItems, moveReport{From: script.Pos{Position: mv.From}, To: script.Pos{Position: mv.To}})
	}
	return r
}

func positions(ps []apis.Position) []script.Pos {
	if len(ps) == 0 {
		return nil
	}
	out := make([]script.Pos, len(ps))
	for i, p := range ps {
		out[i] = script.Pos{Position: p}
	}
	return out
}

// transcript is the surface used by replay. It appends every call it receives
// to the update currently being delivered.
type transcript struct {
	updates []*updateReport
	inBatch bool
}

var _ apis.Surface = (*transcript)(nil)

func (t *transcript) begin(u *apis.Update) {
	t.updates = append(t.updates, newUpdateReport(u))
}

func (t *transcript) record(format string, args ...any) {
	if len(t.updates) == 0 {
		t.begin(nil)
	}
	call := fmt.Sprintf(format, args...)
	if t.inBatch {
		call = "  " + call
	}
	cur := t.updates[len(t.updates)-1]
	cur.Surface = append(cur.Surface, call)
}

func (t *transcript) PerformBatchUpdates(updates func()) {
	t.record("batch")
	t.inBatch = true
	defer func() { t.inBatch = false }()
	updates()
}

func (t *transcript) InsertItems(at []apis.Position)  { t.record("insert items %v", at) }
func (t *transcript) DeleteItems(at []apis.Position)  { t.record("delete items %v", at) }
func (t *transcript) ReloadItems(at []apis.Position)  { t.record("reload items %v", at) }
func (t *transcript) MoveItem(from, to apis.Position) { t.record("move item %v %v", from, to) }
func (t *transcript) InsertSections(at []int)         { t.record("insert sections %v", at) }
func (t *transcript) DeleteSections(at []int)         { t.record("delete sections %v", at) }
func (t *transcript) ReloadSections(at []int)         { t.record("reload sections %v", at) }
func (t *transcript) MoveSection(from, to int)        { t.record("move section %d %d", from, to) }
func (t *transcript) ReloadData()                     { t.record("reload data") }

type replayOptions struct {
	output              string
	movesAsDeleteInsert bool
	reloadOnSections    bool
}

func newReplayCmd(o *options) *cobra.Command {
	r := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay <script.yaml>",
		Short: "Run a script and print the updates delivered to the surface",
		Long: `Replay loads a script, registers its mappings, fills the storage with its
sections and applies its steps. Every update is delivered to a recording
surface; the surface calls and the final grid, with the view resolved for
every header, item and footer, are printed afterwards.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, o, args[0])
		},
	}
	cmd.Flags().StringVarP(&r.output, "output", "o", "text", "output format (text, yaml)")
	cmd.Flags().BoolVar(&r.movesAsDeleteInsert, "moves-as-delete-insert", false, "animate item moves as a delete and an insert")
	cmd.Flags().BoolVar(&r.reloadOnSections, "reload-on-section-changes", true, "reload the surface after section inserts, deletes and reloads")
	return cmd
}

func (r *replayOptions) run(cmd *cobra.Command, o *options, path string) error {
	if r.output != "text" && r.output != "yaml" {
		return fmt.Errorf("%w %q (want text or yaml)", ErrUnknownOutput, r.output)
	}

	s, err := script.LoadFile(path)
	if err != nil {
		return err
	}
	o.logger.WithField("script", path).Debugf("replaying %d steps", len(s.Steps))

	surface := &transcript{}
	up := updater.New(surface,
		updater.WithSink(o.sink()),
		updater.WillUpdate(surface.begin),
		updater.AnimateMoveAsDeleteAndInsert(r.movesAsDeleteInsert),
		updater.ReloadOnSectionChanges(r.reloadOnSections),
	)
	m := gridx.New(
		gridx.WithConfig(o.cfg),
		gridx.WithSink(o.sink()),
		gridx.WithProvider(script.Provider{}),
		gridx.WithUpdater(up),
	)
	if err := s.Execute(m); err != nil {
		return err
	}

	rep := replayReport{Updates: surface.updates, Grid: snapshot(m)}
	if r.output == "yaml" {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	}
	renderText(cmd.OutOrStdout(), rep)
	return nil
}

// snapshot resolves a view for every model left in m's storage.
func snapshot(m *gridx.Manager) []sectionReport {
	st := m.Storage()
	grid := make([]sectionReport, st.NumberOfSections())
	for s := range grid {
		sec := &grid[s]
		sec.Header = supplementary(m, apis.KindHeader, s)
		sec.Footer = supplementary(m, apis.KindFooter, s)
		sec.Items = []cellReport{}
		for i, model := range st.ItemsIn(s) {
			at := apis.At(s, i)
			v, err := m.CellAt(at)
			sec.Items = append(sec.Items, newCellReport(at, model, v, err))
		}
	}
	return grid
}

func supplementary(m *gridx.Manager, kind string, section int) *cellReport {
	model, ok := m.Storage().SupplementaryModel(kind, section)
	if !ok || model == nil {
		return nil
	}
	v, err := m.SupplementaryAt(kind, section)
	c := newCellReport(apis.At(section, 0), model, v, err)
	return &c
}

func newCellReport(at apis.Position, model any, v apis.View, err error) cellReport {
	c := cellReport{At: script.Pos{Position: at}, Model: model}
	if err != nil {
		c.Error = err.Error()
		return c
	}
	if cell, ok := v.(*script.Cell); ok {
		c.View = cell.ID
	}
	return c
}

func renderText(w io.Writer, rep replayReport) {
	fmt.Fprintln(w, titleStyle.Render("Updates"))
	for i, u := range rep.Updates {
		head := fmt.Sprintf("#%d", i+1)
		switch {
		case u.Reload:
			head += " reload"
		case u.Transaction != "":
			head += " " + txStyle.Render(u.Transaction)
		}
		fmt.Fprintf(w, "  %s\n", head)
		for _, call := range u.Surface {
			fmt.Fprintf(w, "    %s\n", callStyle.Render(call))
		}
	}

	fmt.Fprintln(w, titleStyle.Render("Grid"))
	for s, sec := range rep.Grid {
		fmt.Fprintf(w, "  section %d\n", s)
		if sec.Header != nil {
			renderCell(w, apis.KindHeader, *sec.Header)
		}
		for _, c := range sec.Items {
			renderCell(w, c.At.String(), c)
		}
		if sec.Footer != nil {
			renderCell(w, apis.KindFooter, *sec.Footer)
		}
	}
}

func renderCell(w io.Writer, label string, c cellReport) {
	model := strings.TrimSpace(fmt.Sprintf("%#v", c.Model))
	if c.Error != "" {
		fmt.Fprintf(w, "    %-8s %s %s\n", label, model, errStyle.Render(c.Error))
		return
	}
	fmt.Fprintf(w, "    %-8s %s %s\n", label, viewStyle.Render(c.View), model)
}
