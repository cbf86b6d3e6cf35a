package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2020-05-07", "2020-05-07"},
		{"07.05.2020", "2020-05-07"},
		{"2020/05/07", "2020-05-07"},
		{"  2020-05-07  ", "2020-05-07"},
		{"May 7, 2020", "2020-05-07"},
		{"2020-05-07 18:30:00", "2020-05-07"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ToISODate(got))
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("not a date")
	assert.Error(t, err)
}

func TestCleanDateString(t *testing.T) {
	assert.Equal(t, "May 7, 2020", CleanDateString("  May   7,  2020 "))
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2020, time.May, 7, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2020, time.May, 7, 23, 0, 0, 0, time.UTC)
	next := time.Date(2020, time.May, 8, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(morning, next))
}
