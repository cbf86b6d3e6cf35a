package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"receiptbook/internal/logging"
	"receiptbook/internal/models"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	log := &logging.MockLogger{}
	s := NewMerchantStore(filepath.Join(t.TempDir(), "nope.yaml"), log)

	table, err := s.Load()
	require.NoError(t, err)
	assert.NotEmpty(t, table[models.Grocery])
	assert.True(t, log.HasMessage("merchant table not found, using built-in defaults"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merchants.yaml")
	content := `merchants:
  - category: GROCERY
    keywords: [freshco, "no frills"]
  - category: GASOLINE
    keywords: [shell]
  - category: NOT_A_CATEGORY
    keywords: [whatever]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	log := &logging.MockLogger{}
	s := NewMerchantStore(path, log)

	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"FRESHCO", "NO FRILLS"}, table[models.Grocery])
	assert.Equal(t, []string{"SHELL"}, table[models.Gasoline])
	assert.True(t, log.HasMessage("unknown category in merchant table, entry skipped"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merchants.yaml")
	s := NewMerchantStore(path, &logging.MockLogger{})

	table := map[models.CellType][]string{
		models.Grocery: {"FRESHCO"},
		models.Fares:   {"PRESTO", "LYFT"},
	}
	require.NoError(t, s.Save(table))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}
