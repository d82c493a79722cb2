package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
	"github.com/pfrederiksen/wevity-contests/internal/filter"
)

func sampleRecords() []*contest.Record {
	deadline := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	return []*contest.Record{
		contest.NewRecord("공공데이터 공모전", "행정안전부", "2025.06.01 ~ 2025.07.15", &deadline, "대상 500만원", "https://www.wevity.com/?ix=1"),
		contest.NewRecord("시각화 어워드", "", "", nil, "", "https://www.wevity.com/?ix=2"),
		contest.NewRecord("데이터 분석 대회", "통계청", "D-20", nil, "", "https://www.wevity.com/?ix=3"),
	}
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	s, err := New(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "last_results.json"), s.Path())
}

func TestLoad_NoResults(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = s.Load()
	assert.True(t, errors.Is(err, ErrNoResults))
}

func TestSaveLoad(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	to := time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC)
	in := &Results{
		Keyword: "공공데이터",
		Window:  filter.Window{To: &to},
		Records: sampleRecords(),
	}
	require.NoError(t, s.Save(in))
	assert.NotEmpty(t, in.SearchedAt)

	out, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, "공공데이터", out.Keyword)
	require.NotNil(t, out.Window.To)
	assert.True(t, to.Equal(*out.Window.To))
	assert.Nil(t, out.Window.From)
	require.Len(t, out.Records, 3)
	assert.Equal(t, in.Records[0].ID, out.Records[0].ID)
	require.NotNil(t, out.Records[0].Deadline)
	assert.True(t, in.Records[0].Deadline.Equal(*out.Records[0].Deadline))
	assert.Nil(t, out.Records[1].Deadline)
	assert.Equal(t, contest.Unknown, out.Records[1].Host)

	_, err = os.Stat(s.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file should be renamed away")
}

func TestSave_Overwrites(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Save(&Results{Keyword: "first", Records: sampleRecords()}))
	require.NoError(t, s.Save(&Results{Keyword: "second"}))

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", out.Keyword)
	assert.NotNil(t, out.Records)
	assert.Empty(t, out.Records)
}

func TestLoad_Corrupt(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0644))

	_, err = s.Load()
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoResults))
	assert.Contains(t, err.Error(), "parsing results")
}
