package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func sampleRecords() []*contest.Record {
	deadline := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	return []*contest.Record{
		contest.NewRecord("공공데이터 공모전, 제7회", "행정안전부", "2025.06.01 ~ 2025.07.15", &deadline,
			"1st place: 500만원", "https://www.wevity.com/?c=find&ix=1"),
		contest.NewRecord("시각화 \"어워드\"", "", "", nil, "", "https://www.wevity.com/?c=find&ix=2"),
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name, path string
		want       Format
		wantErr    bool
	}{
		{"csv", "", FormatCSV, false},
		{" JSON ", "", FormatJSON, false},
		{"sqlite3", "", FormatSQLite, false},
		{"ics", "", FormatICS, false},
		{"", "out/contests.db", FormatSQLite, false},
		{"", "deadlines.ICS", FormatICS, false},
		{"json", "out.csv", FormatJSON, false},
		{"", "contests", "", true},
		{"xlsx", "", FormatXLSX, false},
		{"", "contests.XLSX", FormatXLSX, false},
		{"xls", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name+"|"+tt.path, func(t *testing.T) {
			got, err := ParseFormat(tt.name, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	records := sampleRecords()
	require.NoError(t, WriteCSV(&buf, records))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, utf8BOM), "CSV must start with a BOM")

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, utf8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		records[0].ID, "공공데이터 공모전, 제7회", "행정안전부", "2025.06.01 ~ 2025.07.15",
		"2025-07-15", "1st place: 500만원", "https://www.wevity.com/?c=find&ix=1",
	}, rows[1])
	assert.Equal(t, "시각화 \"어워드\"", rows[2][1])
	assert.Equal(t, "", rows[2][4], "unknown deadline is an empty cell")
	assert.Equal(t, contest.Unknown, rows[2][2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	records := sampleRecords()
	require.NoError(t, WriteXLSX(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close() // nolint:errcheck

	assert.Equal(t, []string{xlsxSheet}, f.GetSheetList())

	rows, err := f.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		records[0].ID, "공공데이터 공모전, 제7회", "행정안전부", "2025.06.01 ~ 2025.07.15",
		"2025-07-15", "1st place: 500만원", "https://www.wevity.com/?c=find&ix=1",
	}, rows[1])
	assert.Equal(t, "시각화 \"어워드\"", rows[2][1])
	assert.Equal(t, "", rows[2][4], "unknown deadline is an empty cell")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleRecords()))

	assert.Contains(t, buf.String(), `"link": "https://www.wevity.com/?c=find&ix=1"`, "ampersands are not HTML-escaped")

	var decoded []*contest.Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "행정안전부", decoded[0].Host)
	assert.Nil(t, decoded[1].Deadline)

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWriteSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "contests.db")
	records := sampleRecords()

	require.NoError(t, WriteSQLite(ctx, path, records))

	// exporting again updates in place
	records[0].Title = "공공데이터 공모전 (수정)"
	require.NoError(t, WriteSQLite(ctx, path, records))

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close() // nolint:errcheck

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contests`).Scan(&count))
	assert.Equal(t, 2, count)

	var (
		title    string
		deadline sql.NullString
		amount   int64
	)
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT title, deadline, prize_amount FROM contests WHERE id = ?`, records[0].ID,
	).Scan(&title, &deadline, &amount))
	assert.Equal(t, "공공데이터 공모전 (수정)", title)
	assert.Equal(t, "2025-07-15", deadline.String)
	assert.Equal(t, int64(5_000_000), amount)

	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT deadline FROM contests WHERE id = ?`, records[1].ID,
	).Scan(&deadline))
	assert.False(t, deadline.Valid)
}

func TestToFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	records := sampleRecords()

	for _, format := range []Format{FormatCSV, FormatXLSX, FormatJSON, FormatICS, FormatSQLite} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(dir, "contests."+string(format))
			require.NoError(t, ToFile(ctx, format, path, records, now))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "contests.ics"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "BEGIN:VEVENT"))

	assert.Error(t, ToFile(ctx, Format("xls"), filepath.Join(dir, "contests.xls"), records, now))
}
