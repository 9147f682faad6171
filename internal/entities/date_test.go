package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	book := Book{Title: "1984", PublishedDate: NewDate(1949, time.June, 8)}

	data, err := json.Marshal(book)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"published_date":"1949-06-08"`)

	var decoded Book
	require.NoError(t, json.Unmarshal([]byte(`{"published_date":"1925-04-10"}`), &decoded))
	assert.Equal(t, "1925-04-10", decoded.PublishedDate.String())

	err = json.Unmarshal([]byte(`{"published_date":"April 10, 1925"}`), &decoded)
	assert.Error(t, err)
}

func TestDate_Scan(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"time", time.Date(1813, time.January, 28, 15, 4, 5, 0, time.UTC), "1813-01-28"},
		{"string", "1949-06-08", "1949-06-08"},
		{"timestamp string", "1949-06-08T00:00:00Z", "1949-06-08"},
		{"bytes", []byte("1925-04-10"), "1925-04-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, d.Scan(tt.value))
			assert.Equal(t, tt.want, d.String())
		})
	}

	var d Date
	assert.Error(t, d.Scan(42))
}

func TestParseReadingStatus(t *testing.T) {
	s, ok := ParseReadingStatus("currently_reading")
	assert.True(t, ok)
	assert.Equal(t, CurrentlyReading, s)

	_, ok = ParseReadingStatus("ABANDONED")
	assert.False(t, ok)
}
