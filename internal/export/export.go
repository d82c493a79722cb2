// Package export writes curated contest records to files.
//
// Supported formats:
//   - csv: one row per record with a UTF-8 byte order mark so spreadsheet apps detect the encoding
//   - xlsx: an Excel workbook with the same columns as csv
//   - json: an indented array of records
//   - sqlite: a contests table keyed by record ID, upserted on repeated exports
//   - ics: an iCalendar file with an all-day event on each deadline
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/wevity-contests/internal/calendar"
	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

// Format is an export file format
type Format string

const (
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
	FormatICS    Format = "ics"
)

// utf8BOM makes Excel open the CSV as UTF-8
const utf8BOM = "\ufeff"

var csvHeader = []string{"id", "title", "host", "period", "deadline", "prize", "link"}

// ParseFormat validates a format name.
// An empty name is inferred from the extension of path.
func ParseFormat(name, path string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	switch name {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	case "sqlite", "sqlite3", "db":
		return FormatSQLite, nil
	case "ics", "ical":
		return FormatICS, nil
	case "":
		return "", fmt.Errorf("export format is required (csv, xlsx, json, sqlite or ics)")
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, xlsx, json, sqlite or ics)", name)
	}
}

// WriteCSV writes records as CSV preceded by a UTF-8 BOM
func WriteCSV(w io.Writer, records []*contest.Record) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.ID,
			rec.Title,
			rec.Host,
			rec.Period,
			deadlineString(rec),
			rec.Prize,
			rec.Link,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}

// WriteJSON writes records as an indented JSON array
func WriteJSON(w io.Writer, records []*contest.Record) error {
	if records == nil {
		records = []*contest.Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// ToFile exports records to path in the given format
func ToFile(ctx context.Context, format Format, path string, records []*contest.Record, now time.Time) error {
	if format == FormatSQLite {
		return WriteSQLite(ctx, path, records)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}

	switch format {
	case FormatCSV:
		err = WriteCSV(f, records)
	case FormatXLSX:
		err = WriteXLSX(f, records)
	case FormatJSON:
		err = WriteJSON(f, records)
	case FormatICS:
		_, err = io.WriteString(f, calendar.GenerateICS(records, now))
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}

	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing export file: %w", closeErr)
	}
	return err
}

func deadlineString(rec *contest.Record) string {
	if rec.Deadline == nil {
		return ""
	}
	return rec.Deadline.Format("2006-01-02")
}
