// Package grid defines the narrow interface through which the rest of the
// application sees a spreadsheet file: a grid of string values per tab, a
// per-cell background color map, a notes side-channel and batch writes.
package grid

import (
	"context"

	"receiptbook/internal/models"
)

// Grid is a read/write view over one spreadsheet file. Reads are bulk: one
// call returns a whole tab, so callers can snapshot a tab once and derive
// everything else in memory.
type Grid interface {
	// Title returns the spreadsheet's own title (e.g. "2018-08").
	Title() string

	// Tabs lists tab titles in sheet order.
	Tabs(ctx context.Context) ([]string, error)

	// Values returns every cell value of a tab as a row-major 2D slice.
	Values(ctx context.Context, tab string) ([][]string, error)

	// Colors returns the background color of every formatted cell, keyed by
	// A1 label.
	Colors(ctx context.Context, tab string) (map[string]models.Color, error)

	// Notes returns every cell note of a tab, keyed by A1 label.
	Notes(ctx context.Context, tab string) (map[string]string, error)

	// WriteCells writes the given values in one batch.
	WriteCells(ctx context.Context, tab string, values map[string]string) error

	// WriteNotes writes cell notes in one batch. Unless replace is set, a new
	// note is appended to the existing one, comma-joined.
	WriteNotes(ctx context.Context, tab string, notes map[string]string, replace bool) error

	// RenameTab changes a tab's title.
	RenameTab(ctx context.Context, tab, newTitle string) error

	// ReorderTabs arranges tabs in the given title order.
	ReorderTabs(ctx context.Context, titles []string) error
}

// Mover moves tabs between spreadsheet files. It is implemented by backends
// that can address more than one file, such as the Google Sheets client.
type Mover interface {
	// CopyTab copies a tab into the named destination file and returns the
	// title the destination assigned to the copy.
	CopyTab(ctx context.Context, tab, destFilename string) (string, error)

	// DeleteTab removes a tab from this file.
	DeleteTab(ctx context.Context, tab string) error
}

// Opener opens spreadsheet files by name.
type Opener interface {
	Open(ctx context.Context, filename string) (Grid, error)
	List(ctx context.Context) ([]string, error)
}
