// Package gsheets backs the grid interfaces with the Google Sheets API.
// Every read is a bulk call per tab and a fixed delay is inserted before
// each request to stay inside the API's per-minute quotas.
package gsheets

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"receiptbook/internal/cells"
	"receiptbook/internal/grid"
	"receiptbook/internal/logging"
	"receiptbook/internal/models"
)

// Service wraps the Sheets API client shared by every open spreadsheet.
type Service struct {
	api   *sheets.Service
	delay time.Duration
	log   logging.Logger

	// files maps human-readable spreadsheet names to spreadsheet IDs. A
	// name not present in the map is used as an ID directly.
	files map[string]string
}

// NewService builds the shared Sheets client from a service account
// credentials file.
func NewService(ctx context.Context, credentialsFile string, files map[string]string, quotaDelay time.Duration, log logging.Logger) (*Service, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	api, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Service{api: api, delay: quotaDelay, log: log, files: files}, nil
}

// pause waits out the quota delay, honoring cancellation.
func (s *Service) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) spreadsheetID(filename string) string {
	if id, ok := s.files[filename]; ok {
		return id
	}
	return filename
}

// Open loads a spreadsheet's metadata and returns a Grid over it.
func (s *Service) Open(ctx context.Context, filename string) (grid.Grid, error) {
	sp := &Spreadsheet{svc: s, id: s.spreadsheetID(filename)}
	if err := sp.refresh(ctx); err != nil {
		return nil, err
	}
	return sp, nil
}

// OpenSpreadsheet is Open returning the concrete type, for callers that need
// the Mover side as well.
func (s *Service) OpenSpreadsheet(ctx context.Context, filename string) (*Spreadsheet, error) {
	sp := &Spreadsheet{svc: s, id: s.spreadsheetID(filename)}
	if err := sp.refresh(ctx); err != nil {
		return nil, err
	}
	return sp, nil
}

// List returns the spreadsheet names registered in the file map.
func (s *Service) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	return names, nil
}

// Spreadsheet is one Google Sheets file.
type Spreadsheet struct {
	svc   *Service
	id    string
	title string

	tabOrder []string
	sheetIDs map[string]int64
}

var (
	_ grid.Grid   = (*Spreadsheet)(nil)
	_ grid.Mover  = (*Spreadsheet)(nil)
	_ grid.Opener = (*Service)(nil)
)

// refresh reloads the spreadsheet's title and tab index. Called at open and
// after every structural change.
func (sp *Spreadsheet) refresh(ctx context.Context) error {
	if err := sp.svc.pause(ctx); err != nil {
		return err
	}
	meta, err := sp.svc.api.Spreadsheets.Get(sp.id).
		Fields("properties/title", "sheets/properties").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("loading spreadsheet %s: %w", sp.id, err)
	}
	sp.title = meta.Properties.Title
	sp.tabOrder = sp.tabOrder[:0]
	sp.sheetIDs = make(map[string]int64, len(meta.Sheets))
	for _, sheet := range meta.Sheets {
		sp.tabOrder = append(sp.tabOrder, sheet.Properties.Title)
		sp.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
	}
	return nil
}

func (sp *Spreadsheet) sheetID(tab string) (int64, error) {
	id, ok := sp.sheetIDs[tab]
	if !ok {
		return 0, fmt.Errorf("no tab '%s' in spreadsheet '%s'", tab, sp.title)
	}
	return id, nil
}

func (sp *Spreadsheet) Title() string { return sp.title }

func (sp *Spreadsheet) Tabs(ctx context.Context) ([]string, error) {
	tabs := make([]string, len(sp.tabOrder))
	copy(tabs, sp.tabOrder)
	return tabs, nil
}

// Values returns a tab's cells as entered: formulas stay formulas, so the
// billing importer can extend them.
func (sp *Spreadsheet) Values(ctx context.Context, tab string) ([][]string, error) {
	if err := sp.svc.pause(ctx); err != nil {
		return nil, err
	}
	resp, err := sp.svc.api.Spreadsheets.Values.Get(sp.id, quoteTab(tab)).
		ValueRenderOption("FORMULA").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading values of tab '%s': %w", tab, err)
	}
	values := make([][]string, len(resp.Values))
	for y, row := range resp.Values {
		values[y] = make([]string, len(row))
		for x, cell := range row {
			values[y][x] = fmt.Sprint(cell)
		}
	}
	return values, nil
}

// Colors returns the background color of every formatted cell, keyed by A1
// label, in one fields-masked metadata read.
func (sp *Spreadsheet) Colors(ctx context.Context, tab string) (map[string]models.Color, error) {
	if err := sp.svc.pause(ctx); err != nil {
		return nil, err
	}
	resp, err := sp.svc.api.Spreadsheets.Get(sp.id).
		Ranges(quoteTab(tab)).
		Fields("sheets/data/rowData/values/userEnteredFormat/backgroundColor").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading colors of tab '%s': %w", tab, err)
	}

	colors := make(map[string]models.Color)
	forEachCell(resp, func(row, col int, cell *sheets.CellData) {
		if cell.UserEnteredFormat == nil || cell.UserEnteredFormat.BackgroundColor == nil {
			return
		}
		bg := cell.UserEnteredFormat.BackgroundColor
		colors[cells.RowColToLabel(row, col)] = models.Color{
			Red:   bg.Red,
			Green: bg.Green,
			Blue:  bg.Blue,
		}
	})
	return colors, nil
}

// Notes returns every cell note of a tab, keyed by A1 label.
func (sp *Spreadsheet) Notes(ctx context.Context, tab string) (map[string]string, error) {
	if err := sp.svc.pause(ctx); err != nil {
		return nil, err
	}
	resp, err := sp.svc.api.Spreadsheets.Get(sp.id).
		Ranges(quoteTab(tab)).
		Fields("sheets/data/rowData/values/note").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading notes of tab '%s': %w", tab, err)
	}

	notes := make(map[string]string)
	forEachCell(resp, func(row, col int, cell *sheets.CellData) {
		if cell.Note != "" {
			notes[cells.RowColToLabel(row, col)] = cell.Note
		}
	})
	return notes, nil
}

// WriteCells writes the given values in one batch, as the user would enter
// them: formulas are interpreted, not stored as text.
func (sp *Spreadsheet) WriteCells(ctx context.Context, tab string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	if err := sp.svc.pause(ctx); err != nil {
		return err
	}

	data := make([]*sheets.ValueRange, 0, len(values))
	for label, value := range values {
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s", quoteTab(tab), label),
			Values: [][]interface{}{{value}},
		})
	}
	_, err := sp.svc.api.Spreadsheets.Values.BatchUpdate(sp.id, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing cells of tab '%s': %w", tab, err)
	}
	return nil
}

// WriteNotes writes cell notes in one batch. Unless replace is set, a new
// note is appended to the existing one, comma-joined.
func (sp *Spreadsheet) WriteNotes(ctx context.Context, tab string, notes map[string]string, replace bool) error {
	if len(notes) == 0 {
		return nil
	}
	sheetID, err := sp.sheetID(tab)
	if err != nil {
		return err
	}

	existing := map[string]string{}
	if !replace {
		existing, err = sp.Notes(ctx, tab)
		if err != nil {
			return err
		}
	}

	requests := make([]*sheets.Request, 0, len(notes))
	for label, note := range notes {
		y, x, err := cells.LabelToCoords(label)
		if err != nil {
			return err
		}
		if prior := existing[label]; prior != "" && note != "" {
			note = prior + ", " + note
		}
		requests = append(requests, &sheets.Request{
			UpdateCells: &sheets.UpdateCellsRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    int64(y),
					EndRowIndex:      int64(y + 1),
					StartColumnIndex: int64(x),
					EndColumnIndex:   int64(x + 1),
				},
				Rows:   []*sheets.RowData{{Values: []*sheets.CellData{{Note: note}}}},
				Fields: "note",
			},
		})
	}
	return sp.batchUpdate(ctx, tab, requests)
}

func (sp *Spreadsheet) RenameTab(ctx context.Context, tab, newTitle string) error {
	sheetID, err := sp.sheetID(tab)
	if err != nil {
		return err
	}
	err = sp.batchUpdate(ctx, tab, []*sheets.Request{{
		UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
			Properties: &sheets.SheetProperties{SheetId: sheetID, Title: newTitle},
			Fields:     "title",
		},
	}})
	if err != nil {
		return err
	}
	return sp.refresh(ctx)
}

func (sp *Spreadsheet) ReorderTabs(ctx context.Context, titles []string) error {
	requests := make([]*sheets.Request, 0, len(titles))
	for i, title := range titles {
		sheetID, err := sp.sheetID(title)
		if err != nil {
			return err
		}
		requests = append(requests, &sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{SheetId: sheetID, Index: int64(i)},
				Fields:     "index",
			},
		})
	}
	if err := sp.batchUpdate(ctx, "", requests); err != nil {
		return err
	}
	return sp.refresh(ctx)
}

// CopyTab copies a tab into the named destination spreadsheet. The title of
// the copy is assigned by the destination and returned.
func (sp *Spreadsheet) CopyTab(ctx context.Context, tab, destFilename string) (string, error) {
	sheetID, err := sp.sheetID(tab)
	if err != nil {
		return "", err
	}
	if err := sp.svc.pause(ctx); err != nil {
		return "", err
	}
	props, err := sp.svc.api.Spreadsheets.Sheets.CopyTo(sp.id, sheetID,
		&sheets.CopySheetToAnotherSpreadsheetRequest{
			DestinationSpreadsheetId: sp.svc.spreadsheetID(destFilename),
		}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("copying tab '%s' to '%s': %w", tab, destFilename, err)
	}
	return props.Title, nil
}

func (sp *Spreadsheet) DeleteTab(ctx context.Context, tab string) error {
	sheetID, err := sp.sheetID(tab)
	if err != nil {
		return err
	}
	err = sp.batchUpdate(ctx, tab, []*sheets.Request{{
		DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheetID},
	}})
	if err != nil {
		return err
	}
	return sp.refresh(ctx)
}

func (sp *Spreadsheet) batchUpdate(ctx context.Context, tab string, requests []*sheets.Request) error {
	if err := sp.svc.pause(ctx); err != nil {
		return err
	}
	_, err := sp.svc.api.Spreadsheets.BatchUpdate(sp.id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		if tab != "" {
			return fmt.Errorf("updating tab '%s' of '%s': %w", tab, sp.title, err)
		}
		return fmt.Errorf("updating spreadsheet '%s': %w", sp.title, err)
	}
	return nil
}

// forEachCell walks the grid data of a fields-masked metadata response.
func forEachCell(resp *sheets.Spreadsheet, fn func(row, col int, cell *sheets.CellData)) {
	if len(resp.Sheets) == 0 || len(resp.Sheets[0].Data) == 0 {
		return
	}
	for y, rowData := range resp.Sheets[0].Data[0].RowData {
		if rowData == nil {
			continue
		}
		for x, cell := range rowData.Values {
			if cell == nil {
				continue
			}
			fn(y+1, x+1, cell)
		}
	}
}

func quoteTab(tab string) string {
	return "'" + tab + "'"
}
