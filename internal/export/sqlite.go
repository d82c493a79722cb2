package export

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/pfrederiksen/wevity-contests/internal/contest"
)

const createContestsTable = `CREATE TABLE IF NOT EXISTS contests (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	host TEXT NOT NULL DEFAULT '',
	period TEXT NOT NULL DEFAULT '',
	deadline TEXT,
	prize TEXT NOT NULL DEFAULT '',
	prize_amount INTEGER NOT NULL DEFAULT 0,
	link TEXT NOT NULL UNIQUE,
	exported_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const upsertContest = `INSERT INTO contests (id, title, host, period, deadline, prize, prize_amount, link)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET title=excluded.title, host=excluded.host, period=excluded.period,
	deadline=excluded.deadline, prize=excluded.prize, prize_amount=excluded.prize_amount,
	exported_at=CURRENT_TIMESTAMP`

// WriteSQLite upserts records into the contests table of the database at path
func WriteSQLite(ctx context.Context, path string, records []*contest.Record) error {
	dsn := path + "?_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close() // nolint:errcheck

	if _, err := db.ExecContext(ctx, createContestsTable); err != nil {
		return fmt.Errorf("creating contests table: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() // nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertContest)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, rec := range records {
		var deadline sql.NullString
		if rec.Deadline != nil {
			deadline = sql.NullString{String: rec.Deadline.Format("2006-01-02"), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.Title, rec.Host, rec.Period, deadline, rec.Prize, contest.PrizeAmount(rec.Prize), rec.Link,
		); err != nil {
			return fmt.Errorf("saving %q: %w", rec.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing export: %w", err)
	}
	return nil
}
