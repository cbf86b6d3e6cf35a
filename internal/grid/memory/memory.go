// Package memory provides an in-memory grid.Grid used by tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"

	"receiptbook/internal/cells"
	"receiptbook/internal/grid"
	"receiptbook/internal/models"
)

// Tab holds one worksheet's cell data.
type Tab struct {
	Values [][]string
	Colors map[string]models.Color
	Notes  map[string]string
}

// Grid is a mutable in-memory spreadsheet file.
type Grid struct {
	title string
	order []string
	tabs  map[string]*Tab
}

var _ grid.Grid = (*Grid)(nil)

// New creates an empty grid with the given spreadsheet title.
func New(title string) *Grid {
	return &Grid{
		title: title,
		tabs:  map[string]*Tab{},
	}
}

// AddTab registers a tab. Colors and notes may be nil.
func (g *Grid) AddTab(title string, values [][]string, colors map[string]models.Color) *Tab {
	tab := &Tab{
		Values: values,
		Colors: colors,
		Notes:  map[string]string{},
	}
	if tab.Colors == nil {
		tab.Colors = map[string]models.Color{}
	}
	g.order = append(g.order, title)
	g.tabs[title] = tab
	return tab
}

func (g *Grid) Title() string { return g.title }

func (g *Grid) Tabs(ctx context.Context) ([]string, error) {
	return append([]string{}, g.order...), nil
}

func (g *Grid) Values(ctx context.Context, tab string) ([][]string, error) {
	t, err := g.tab(tab)
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(t.Values))
	for i, row := range t.Values {
		out[i] = append([]string{}, row...)
	}
	return out, nil
}

func (g *Grid) Colors(ctx context.Context, tab string) (map[string]models.Color, error) {
	t, err := g.tab(tab)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Color, len(t.Colors))
	for label, color := range t.Colors {
		out[label] = color
	}
	return out, nil
}

func (g *Grid) Notes(ctx context.Context, tab string) (map[string]string, error) {
	t, err := g.tab(tab)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(t.Notes))
	for label, note := range t.Notes {
		out[label] = note
	}
	return out, nil
}

func (g *Grid) WriteCells(ctx context.Context, tab string, values map[string]string) error {
	t, err := g.tab(tab)
	if err != nil {
		return err
	}
	for label, value := range values {
		y, x, err := cells.LabelToCoords(label)
		if err != nil {
			return err
		}
		for len(t.Values) <= y {
			t.Values = append(t.Values, nil)
		}
		for len(t.Values[y]) <= x {
			t.Values[y] = append(t.Values[y], "")
		}
		t.Values[y][x] = value
	}
	return nil
}

func (g *Grid) WriteNotes(ctx context.Context, tab string, notes map[string]string, replace bool) error {
	t, err := g.tab(tab)
	if err != nil {
		return err
	}
	for label, note := range notes {
		if existing := t.Notes[label]; existing != "" && !replace {
			note = existing + ", " + note
		}
		t.Notes[label] = note
	}
	return nil
}

func (g *Grid) RenameTab(ctx context.Context, tab, newTitle string) error {
	t, err := g.tab(tab)
	if err != nil {
		return err
	}
	if _, taken := g.tabs[newTitle]; taken {
		return fmt.Errorf("tab '%s' already exists", newTitle)
	}
	delete(g.tabs, tab)
	g.tabs[newTitle] = t
	for i, title := range g.order {
		if title == tab {
			g.order[i] = newTitle
		}
	}
	return nil
}

func (g *Grid) ReorderTabs(ctx context.Context, titles []string) error {
	for _, title := range titles {
		if _, ok := g.tabs[title]; !ok {
			return fmt.Errorf("tab '%s' not found in '%s'", title, g.title)
		}
	}
	g.order = append([]string{}, titles...)
	return nil
}

// SortTabs orders tabs alphabetically, mirroring what callers do with
// ReorderTabs against a real backend.
func (g *Grid) SortTabs() {
	sort.Strings(g.order)
}

func (g *Grid) tab(title string) (*Tab, error) {
	t, ok := g.tabs[title]
	if !ok {
		return nil, fmt.Errorf("tab '%s' not found in '%s'", title, g.title)
	}
	return t, nil
}
