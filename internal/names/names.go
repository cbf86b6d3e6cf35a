// Package names parses dates and day numbers out of spreadsheet and tab
// titles: receipt book files are named "YYYY-MM", normalized receipt tabs
// carry the day of month ("07", "21a"), and billing month tabs carry a month
// name or number.
package names

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"receiptbook/internal/bookerr"
)

var datePattern = regexp.MustCompile(`(\d{2,4}|[\/.\-\\])+`)

// suffix letters appended to keep normalized tab titles unique
const suffixLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ExtractNumber concatenates every digit in the string and returns the
// resulting number. "Copy of 21d" returns 21.
func ExtractNumber(s string) (int, error) {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, &bookerr.TitleError{Title: s, Msg: "no digits found"}
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0, &bookerr.TitleError{Title: s, Msg: "number too large"}
	}
	return n, nil
}

// ExtractDateString returns the date-looking portion of a tab title.
// "Copy of 2018/08/01 PM" returns "2018/08/01".
func ExtractDateString(title string) (string, error) {
	match := datePattern.FindString(title)
	if match == "" {
		return "", &bookerr.TitleError{Title: title, Msg: "date not found"}
	}
	return match, nil
}

// ParseYearMonth parses a receipt book filename of the form "YYYY-MM".
func ParseYearMonth(filename string) (int, time.Month, error) {
	match := datePattern.FindString(filename)
	if match == "" {
		return 0, 0, &bookerr.TitleError{Title: filename, Msg: "expected a 'YYYY-MM' name"}
	}
	parts := splitDateParts(match)
	if len(parts) < 2 {
		return 0, 0, &bookerr.TitleError{Title: filename, Msg: "expected a 'YYYY-MM' name"}
	}
	year, month := parts[0], parts[1]
	if year < 1000 || month < 1 || month > 12 {
		return 0, 0, &bookerr.TitleError{Title: filename, Msg: "expected a 'YYYY-MM' name"}
	}
	return year, time.Month(month), nil
}

// NormalizedTitle converts a raw tab title into its day-of-month form and
// verifies the tab's date belongs to the book named by filename:
//
//	"Copy of 2018/08/01 PM" in "2018-08" => "01"
//	"Copy of 18/08/07 1"    in "2018-08" => "07"
//
// registry, when non-nil, is consulted to keep the result unique: an already
// taken title gets a letter suffix ("01" => "01a"). Titles that already are a
// bare day number are rejected as normalized.
func NormalizedTitle(tabTitle, filename string, registry map[string]bool) (string, error) {
	dateString, err := ExtractDateString(tabTitle)
	if err != nil {
		return "", err
	}

	if day, convErr := strconv.Atoi(dateString); convErr == nil && day >= 1 && day <= 31 {
		return "", &bookerr.TitleError{Title: tabTitle, Msg: "already normalized"}
	}

	fileYear, fileMonth, err := ParseYearMonth(filename)
	if err != nil {
		return "", err
	}

	// A date string ending with the file's two-digit year reads day-first,
	// otherwise year-first.
	yearFirst := !strings.HasSuffix(dateString, fmt.Sprintf("%02d", fileYear%100))

	tabDate, err := parseTabDate(dateString, yearFirst)
	if err != nil {
		return "", err
	}

	if tabDate.Year() != fileYear || tabDate.Month() != fileMonth {
		mismatch := &bookerr.TitleError{
			Title: tabTitle,
			Msg:   fmt.Sprintf("date does not correspond to the file name '%s'", filename),
		}
		if yearFirst {
			return "", mismatch
		}
		// Ambiguous day/month order: retry with the two swapped before
		// giving up on the title.
		tabDate, err = parseTabDateSwapped(dateString)
		if err != nil || tabDate.Year() != fileYear || tabDate.Month() != fileMonth {
			return "", mismatch
		}
	}

	title := fmt.Sprintf("%02d", tabDate.Day())
	if registry != nil {
		unique := title
		for i := 0; registry[unique]; i++ {
			if i >= len(suffixLetters) {
				return "", &bookerr.TitleError{Title: tabTitle, Msg: "ran out of unique suffixes"}
			}
			unique = title + string(suffixLetters[i])
		}
		title = unique
	}
	return title, nil
}

// ParseLooseDate parses a full date out of a workbook tab title, accepting
// both year-first ("2017/11/22") and day-first ("22.11.2017") orders. The
// order is decided by which end holds the four-digit year.
func ParseLooseDate(title string) (time.Time, error) {
	dateString, err := ExtractDateString(title)
	if err != nil {
		return time.Time{}, err
	}
	parts := splitDateParts(dateString)
	if len(parts) != 3 {
		return time.Time{}, &bookerr.TitleError{Title: title, Msg: "expected a full date"}
	}
	yearFirst := parts[0] >= 1000
	return parseTabDate(dateString, yearFirst)
}

// MonthFromTitle extracts a calendar month from a billing tab title. Accepted
// forms: a month name ("January", "Sep 2019"), a "YYYY-MM" pair, or a bare
// month number.
func MonthFromTitle(title string) (time.Month, error) {
	lower := strings.ToLower(title)
	for month := time.January; month <= time.December; month++ {
		name := strings.ToLower(month.String())
		if strings.Contains(lower, name) || strings.Contains(lower, name[:3]) {
			return month, nil
		}
	}

	if match := datePattern.FindString(title); match != "" {
		parts := splitDateParts(match)
		if len(parts) >= 2 && parts[0] >= 1000 && parts[1] >= 1 && parts[1] <= 12 {
			return time.Month(parts[1]), nil
		}
		if len(parts) == 1 && parts[0] >= 1 && parts[0] <= 12 {
			return time.Month(parts[0]), nil
		}
	}
	return 0, &bookerr.TitleError{Title: title, Msg: "month not found"}
}

func parseTabDate(dateString string, yearFirst bool) (time.Time, error) {
	parts := splitDateParts(dateString)

	var year, month, day int
	switch {
	case len(parts) == 3 && yearFirst:
		year, month, day = parts[0], parts[1], parts[2]
	case len(parts) == 3:
		day, month, year = parts[0], parts[1], parts[2]
	case len(parts) == 2 && yearFirst:
		year, month, day = parts[0], parts[1], 1
	default:
		return time.Time{}, &bookerr.TitleError{Title: dateString, Msg: "unrecognized date layout"}
	}

	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, &bookerr.TitleError{Title: dateString, Msg: "date out of range"}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// parseTabDateSwapped reads a three-part day-first string as month-first.
func parseTabDateSwapped(dateString string) (time.Time, error) {
	parts := splitDateParts(dateString)
	if len(parts) != 3 {
		return time.Time{}, &bookerr.TitleError{Title: dateString, Msg: "unrecognized date layout"}
	}
	swapped := fmt.Sprintf("%02d.%02d.%d", parts[1], parts[0], parts[2])
	return parseTabDate(swapped, false)
}

func splitDateParts(dateString string) []int {
	fields := strings.FieldsFunc(dateString, func(r rune) bool {
		return r == '/' || r == '.' || r == '-' || r == '\\'
	})
	parts := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		parts = append(parts, n)
	}
	return parts
}
