package names

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractNumber(t *testing.T) {
	n, err := ExtractNumber("Copy of 21d")
	require.NoError(t, err)
	assert.Equal(t, 21, n)

	n, err = ExtractNumber("07")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = ExtractNumber("no digits here")
	assert.Error(t, err)
}

func TestExtractDateString(t *testing.T) {
	s, err := ExtractDateString("Copy of 2018/08/01 PM")
	require.NoError(t, err)
	assert.Equal(t, "2018/08/01", s)

	s, err = ExtractDateString("22.11.2017")
	require.NoError(t, err)
	assert.Equal(t, "22.11.2017", s)

	_, err = ExtractDateString("groceries")
	assert.Error(t, err)
}

func TestParseYearMonth(t *testing.T) {
	year, month, err := ParseYearMonth("2018-08")
	require.NoError(t, err)
	assert.Equal(t, 2018, year)
	assert.Equal(t, time.August, month)

	_, _, err = ParseYearMonth("receipts")
	assert.Error(t, err)

	_, _, err = ParseYearMonth("2018-13")
	assert.Error(t, err)
}

func TestNormalizedTitle(t *testing.T) {
	tests := []struct {
		tabTitle string
		filename string
		want     string
	}{
		{"Copy of 2018/08/01 PM", "2018-08", "01"},
		{"Copy of 18/08/07 1", "2018-08", "07"},
		{"2018/08/21", "2018-08", "21"},
		{"01.08.18", "2018-08", "01"},
	}

	for _, tt := range tests {
		t.Run(tt.tabTitle, func(t *testing.T) {
			got, err := NormalizedTitle(tt.tabTitle, tt.filename, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizedTitle_AlreadyNormalized(t *testing.T) {
	_, err := NormalizedTitle("07", "2018-08", nil)
	assert.Error(t, err)
}

func TestNormalizedTitle_WrongMonth(t *testing.T) {
	_, err := NormalizedTitle("2018/09/01", "2018-08", nil)
	assert.Error(t, err)
}

func TestNormalizedTitle_SwappedDayMonth(t *testing.T) {
	// "08.01.18" read day-first lands in January; the month-first reading
	// matches the book and wins.
	got, err := NormalizedTitle("08.01.18", "2018-08", nil)
	require.NoError(t, err)
	assert.Equal(t, "01", got)
}

func TestNormalizedTitle_UniqueSuffix(t *testing.T) {
	registry := map[string]bool{"01": true}
	got, err := NormalizedTitle("Copy of 2018/08/01", "2018-08", registry)
	require.NoError(t, err)
	assert.Equal(t, "01a", got)

	registry["01a"] = true
	got, err = NormalizedTitle("Copy of 2018/08/01 PM", "2018-08", registry)
	require.NoError(t, err)
	assert.Equal(t, "01b", got)
}

func TestParseLooseDate(t *testing.T) {
	d, err := ParseLooseDate("22.11.2017")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, time.November, 22, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseLooseDate("2017/11/22 extra")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2017, time.November, 22, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseLooseDate("11.2017")
	assert.Error(t, err)
}

func TestMonthFromTitle(t *testing.T) {
	month, err := MonthFromTitle("January")
	require.NoError(t, err)
	assert.Equal(t, time.January, month)

	month, err = MonthFromTitle("Sep 2019")
	require.NoError(t, err)
	assert.Equal(t, time.September, month)

	month, err = MonthFromTitle("2019-09")
	require.NoError(t, err)
	assert.Equal(t, time.September, month)

	_, err = MonthFromTitle("totals")
	assert.Error(t, err)
}
