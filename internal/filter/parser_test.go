package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := fixedNow()

	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2025-03-15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"2025.03.15", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"2025/3/5", time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"  2026-01-02 ", time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), false},
		{"07-15", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), false},
		{"7.1", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), false},
		{"8월 15일", time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC), false},
		{"2026년 1월 3일", time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC), false},
		{"", time.Time{}, true},
		{"tomorrow", time.Time{}, true},
		{"2025-02-30", time.Time{}, true},
		{"13-01", time.Time{}, true},
		{"2025-03", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
		})
	}
}

func TestParseWindow(t *testing.T) {
	now := fixedNow()

	w, err := ParseWindow("", "", now)
	require.NoError(t, err)
	assert.True(t, w.IsEmpty())

	w, err = ParseWindow("2025-07-01", "", now)
	require.NoError(t, err)
	require.NotNil(t, w.From)
	assert.Nil(t, w.To)
	assert.Equal(t, "From: 2025.07.01", w.String())

	w, err = ParseWindow("", "08-31", now)
	require.NoError(t, err)
	assert.Nil(t, w.From)
	require.NotNil(t, w.To)
	assert.Equal(t, "To: 2025.08.31", w.String())

	_, err = ParseWindow("nope", "", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--from")

	_, err = ParseWindow("", "2025-13-01", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to")
}

func TestValidateSearch(t *testing.T) {
	now := fixedNow()

	tests := []struct {
		name     string
		keyword  string
		w        Window
		wantErrs []string
	}{
		{
			name:    "keyword only",
			keyword: "공공데이터",
		},
		{
			name:    "valid window",
			keyword: "공공데이터",
			w:       Window{From: day(2025, 6, 1), To: day(2025, 6, 30)},
		},
		{
			name:    "to equal today",
			keyword: "공공데이터",
			w:       Window{To: day(2025, 6, 10)},
		},
		{
			name:     "blank keyword",
			keyword:  "   ",
			wantErrs: []string{"keyword is required"},
		},
		{
			name:     "from after to",
			keyword:  "공공데이터",
			w:        Window{From: day(2025, 7, 1), To: day(2025, 6, 30)},
			wantErrs: []string{"from date must not be after to date"},
		},
		{
			name:     "to in the past",
			keyword:  "공공데이터",
			w:        Window{To: day(2025, 6, 9)},
			wantErrs: []string{"to date must not be before today"},
		},
		{
			name:     "all problems reported",
			keyword:  "",
			w:        Window{From: day(2025, 6, 1), To: day(2025, 5, 1)},
			wantErrs: []string{"keyword is required", "from date must not be after to date", "to date must not be before today"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSearch(tt.keyword, tt.w, now)
			if len(tt.wantErrs) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErrs {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
