// Package store loads and saves the merchant keyword table that maps bank
// transaction titles to spending categories.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"receiptbook/internal/logging"
	"receiptbook/internal/models"
)

// MerchantConfig is one category's entry in the YAML file.
type MerchantConfig struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// MerchantsFile is the YAML file's top-level shape.
type MerchantsFile struct {
	Merchants []MerchantConfig `yaml:"merchants"`
}

// MerchantStore manages loading and saving of the merchant keyword table.
type MerchantStore struct {
	File string
	log  logging.Logger
}

func NewMerchantStore(file string, log logging.Logger) *MerchantStore {
	return &MerchantStore{File: file, log: log}
}

// findFile looks for the table file in standard locations.
func (s *MerchantStore) findFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "receiptbook", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// Load reads the keyword table from YAML. A missing file is not an error:
// the built-in default table is returned so a fresh install still
// classifies the common merchants.
func (s *MerchantStore) Load() (map[models.CellType][]string, error) {
	filename := s.File
	if filename == "" {
		filename = "merchants.yaml"
	}

	path, err := s.findFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.WithField("file", filename).Warn("merchant table not found, using built-in defaults")
			return DefaultMerchants(), nil
		}
		return nil, fmt.Errorf("resolving merchant table %s: %w", filename, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading merchant table %s: %w", path, err)
	}

	var file MerchantsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing merchant table %s: %w", path, err)
	}

	table := make(map[models.CellType][]string, len(file.Merchants))
	for _, entry := range file.Merchants {
		category, ok := models.ParseCellType(entry.Category)
		if !ok {
			s.log.WithField("category", entry.Category).Warn("unknown category in merchant table, entry skipped")
			continue
		}
		for _, keyword := range entry.Keywords {
			table[category] = append(table[category], strings.ToUpper(keyword))
		}
	}
	return table, nil
}

// Save writes the keyword table back to YAML, categories in name order.
func (s *MerchantStore) Save(table map[models.CellType][]string) error {
	filename := s.File
	if filename == "" {
		filename = "merchants.yaml"
	}

	categories := make([]models.CellType, 0, len(table))
	for category := range table {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].String() < categories[j].String()
	})

	file := MerchantsFile{Merchants: make([]MerchantConfig, 0, len(categories))}
	for _, category := range categories {
		file.Merchants = append(file.Merchants, MerchantConfig{
			Category: category.String(),
			Keywords: table[category],
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("marshaling merchant table: %w", err)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory for merchant table: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing merchant table %s: %w", filename, err)
	}
	return nil
}

// DefaultMerchants is the built-in keyword table, matched against uppercased
// transaction titles.
func DefaultMerchants() map[models.CellType][]string {
	return map[models.CellType][]string{
		models.Grocery:       {"FRESHCO", "NO FRILLS", "FOOD BASICS", "METRO", "LOBLAWS", "WALMART", "COSTCO"},
		models.Takeouts:      {"MCDONALD", "TIM HORTONS", "SUBWAY", "PIZZA", "SUSHI", "UBER EATS"},
		models.Housekeeping:  {"DOLLARAMA", "CANADIAN TIRE", "HOME DEPOT"},
		models.Clothing:      {"WINNERS", "H&M", "OLD NAVY", "UNIQLO"},
		models.Gym:           {"GOODLIFE", "FITNESS"},
		models.Entertainment: {"CINEPLEX", "NETFLIX", "SPOTIFY"},
		models.Books:         {"INDIGO", "CHAPTERS", "KINDLE"},
		models.Gasoline:      {"SHELL", "ESSO", "PETRO-CANADA"},
		models.Parking:       {"IMPARK", "GREEN P", "PRECISE PARK"},
		models.Fares:         {"PRESTO", "GO TRANSIT", "UBER TRIP", "LYFT"},
		models.Drugs:         {"SHOPPERS DRUG", "REXALL", "PHARMA"},
	}
}
