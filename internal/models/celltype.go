// Package models defines the domain types shared across the application:
// cell colors and their semantic types, purchases, transactions and the
// decimal amount helpers.
package models

import (
	"fmt"
	"strings"
)

// CellType is the semantic meaning of a colored cell in a receipt tab. A cell
// is either structural (a summary quantity such as tax or total) or carries a
// spending category.
type CellType int

const (
	// Regular marks a price cell with no recognized color.
	Regular CellType = iota
	Tax
	Subtotal
	Total
	ActuallyPaid
	Date

	// Food, glorious food
	Grocery
	Takeouts

	// The roof over your head
	Rent
	Housekeeping
	GasElectric
	Phones
	TVInternet
	FurnitureAppliances

	// Style and personal care
	Clothing
	Gym
	Haircuts

	// Fun stuff
	Entertainment
	Travel
	Books
	Gifts
	Hobbies
	Subscriptions
	OtherFun

	// Getting around
	Gasoline
	Parking
	Fares
	CarRent

	// Health care
	Drugs
	DentalVision

	// Other
	Other
	Charity
)

var cellTypeNames = map[CellType]string{
	Regular:             "REGULAR",
	Tax:                 "TAX",
	Subtotal:            "SUBTOTAL",
	Total:               "TOTAL",
	ActuallyPaid:        "ACTUALLY_PAID",
	Date:                "DATE",
	Grocery:             "GROCERY",
	Takeouts:            "TAKEOUTS",
	Rent:                "RENT",
	Housekeeping:        "HOUSEKEEPING",
	GasElectric:         "GAS_ELECTRIC",
	Phones:              "PHONES",
	TVInternet:          "TV_INTERNET",
	FurnitureAppliances: "FURNITURE_APPLIANCES",
	Clothing:            "CLOTHING",
	Gym:                 "GYM",
	Haircuts:            "HAIRCUTS",
	Entertainment:       "ENTERTAINMENT",
	Travel:              "TRAVEL",
	Books:               "BOOKS",
	Gifts:               "GIFTS",
	Hobbies:             "HOBBIES",
	Subscriptions:       "SUBSCRIPTIONS",
	OtherFun:            "OTHER_FUN",
	Gasoline:            "GASOLINE",
	Parking:             "PARKING",
	Fares:               "FARES",
	CarRent:             "CAR_RENT",
	Drugs:               "DRUGS",
	DentalVision:        "DENTAL_VISION",
	Other:               "OTHER",
	Charity:             "CHARITY",
}

func (t CellType) String() string {
	if name, ok := cellTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CellType(%d)", int(t))
}

// ParseCellType resolves a cell type by its canonical name, case-insensitive.
func ParseCellType(name string) (CellType, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for t, n := range cellTypeNames {
		if n == upper {
			return t, true
		}
	}
	return Regular, false
}

// cellTypeColors binds each non-regular cell type to exactly one background
// color. The triples must match the source spreadsheet palette byte for byte;
// categories without a sheet color yet hold out-of-range placeholders.
var cellTypeColors = map[CellType]Color{
	Tax:          {Red: 0.8, Green: 0.25490198, Blue: 0.14509805},
	Subtotal:     {Red: 0.41568628, Green: 0.65882355, Blue: 0.30980393},
	Total:        {Red: 0.21960784, Green: 0.4627451, Blue: 0.11372549},
	ActuallyPaid: {Red: 0.15294118, Green: 0.30588236, Blue: 0.07450981},
	Date:         {Red: 0.23529412, Green: 0.47058824, Blue: 0.84705883},

	Grocery:  {Red: 1, Green: 0.9490196, Blue: 0.8},
	Takeouts: {Red: 0.9764706, Green: 0.79607844, Blue: 0.6117647},

	Rent:                {Red: 10, Green: 10, Blue: 10},
	Housekeeping:        {Red: 0.91764706, Green: 0.81960785, Blue: 0.8627451},
	GasElectric:         {Red: 2, Green: 2, Blue: 2},
	Phones:              {Red: 3, Green: 3, Blue: 3},
	TVInternet:          {Red: 4, Green: 4, Blue: 4},
	FurnitureAppliances: {Red: 0.8352941, Green: 0.6509804, Blue: 0.7411765},

	Clothing: {Red: 0.8117647, Green: 0.8862745, Blue: 0.9529412},
	Gym:      {Red: 0.62352943, Green: 0.77254903, Blue: 0.9098039},
	Haircuts: {Red: 7, Green: 7, Blue: 7},

	Entertainment: {Red: 0.7176471, Green: 0.91764706, Blue: 0.7019608},
	Travel:        {Red: 0.44705883, Green: 0.84705883, Blue: 0.4509804},
	Books:         {Red: 0.30588236, Green: 0.7019608, Blue: 0.3529412},
	Gifts:         {Red: 0.5529412, Green: 0.9372549, Blue: 0.85490197},
	Hobbies:       {Red: 0.49019608, Green: 0.83137256, Blue: 0.7607843},
	Subscriptions: {Red: 5, Green: 5, Blue: 5},
	OtherFun:      {Red: 0.41960785, Green: 0.7137255, Blue: 0.6509804},

	Gasoline: {Red: 0.7764706, Green: 0.6745098, Blue: 1},
	Parking:  {Red: 0.5568628, Green: 0.4862745, Blue: 0.7647059},
	Fares:    {Red: 0.85882354, Green: 0.6431373, Blue: 0.9843137},
	CarRent:  {Red: 6, Green: 6, Blue: 6},

	Drugs:        {Red: 0.6431373, Green: 0.7607843, Blue: 0.95686275},
	DentalVision: {Red: 0.42745098, Green: 0.61960787, Blue: 0.92156863},

	Other:   {Red: 0.7176471, Green: 0.7176471, Blue: 0.7176471},
	Charity: {Red: 8, Green: 8, Blue: 8},
}

var colorToCellType map[Color]CellType

func init() {
	colorToCellType = make(map[Color]CellType, len(cellTypeColors))
	for cellType, color := range cellTypeColors {
		if existing, ok := colorToCellType[color]; ok {
			panic(fmt.Sprintf("cell color table is not injective: %v maps to both %s and %s",
				color, existing, cellType))
		}
		colorToCellType[color] = cellType
	}
}

// ClassifyColor returns the cell type bound to the given background color.
// Unrecognized colors, including drifted or hand-repainted ones, return
// ok=false; they are never guessed into a category.
func ClassifyColor(color Color) (CellType, bool) {
	cellType, ok := colorToCellType[color]
	return cellType, ok
}

// TypeColor returns the color a cell type is bound to. Regular has no color.
func TypeColor(t CellType) (Color, bool) {
	color, ok := cellTypeColors[t]
	return color, ok
}

// SummaryTypes are the structural price roles collected from the bottom of a
// receipt's price column.
var SummaryTypes = []CellType{Tax, Subtotal, Total, ActuallyPaid}

// GoodsTypes are the cell types counted as purchasable categories. A name
// cell with any other type is not a line item.
var GoodsTypes = []CellType{
	Grocery,
	Takeouts,
	Housekeeping,
	FurnitureAppliances,
	Clothing,
	Gym,
	Entertainment,
	Travel,
	Books,
	Gifts,
	Hobbies,
	OtherFun,
	Gasoline,
	Parking,
	Fares,
	Drugs,
	DentalVision,
	Other,
}

// IsGoodsType reports whether t is a purchasable category.
func IsGoodsType(t CellType) bool {
	for _, g := range GoodsTypes {
		if g == t {
			return true
		}
	}
	return false
}

// IsSummaryType reports whether t is one of the summary price roles.
func IsSummaryType(t CellType) bool {
	for _, s := range SummaryTypes {
		if s == t {
			return true
		}
	}
	return false
}

// AllCellTypes lists every defined cell type in declaration order, used when
// the operator must pick a category by hand.
func AllCellTypes() []CellType {
	types := make([]CellType, 0, len(cellTypeNames))
	for t := Regular; int(t) < len(cellTypeNames); t++ {
		types = append(types, t)
	}
	return types
}
