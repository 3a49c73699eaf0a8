package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// SQLiteCache stores fetched price series in a SQLite database.
type SQLiteCache struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteCache opens (or creates) the SQLite database and runs migrations.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite price cache opened: %s", dbPath)
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			provider    TEXT NOT NULL,
			symbol      TEXT NOT NULL,
			aggregation TEXT NOT NULL,
			fetch_day   TEXT NOT NULL,
			points      INTEGER NOT NULL,
			created_at  INTEGER NOT NULL,
			UNIQUE (provider, symbol, aggregation, fetch_day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_series_day ON series(fetch_day)`,

		`CREATE TABLE IF NOT EXISTS prices (
			series_id INTEGER NOT NULL REFERENCES series(id) ON DELETE CASCADE,
			date      INTEGER NOT NULL,
			close     REAL NOT NULL,
			PRIMARY KEY (series_id, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (c *SQLiteCache) Load(ctx context.Context, key CacheKey) ([]model.PricePoint, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var id int64
	err := c.db.QueryRowContext(ctx, `SELECT id FROM series
		WHERE provider = ? AND symbol = ? AND aggregation = ? AND fetch_day = ?`,
		key.Provider, key.Symbol, string(key.Aggregation), key.Day,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup series: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, `SELECT date, close FROM prices WHERE series_id = ? ORDER BY date`, id)
	if err != nil {
		return nil, false, fmt.Errorf("load prices: %w", err)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var ts int64
		var p model.PricePoint
		if err := rows.Scan(&ts, &p.Close); err != nil {
			return nil, false, fmt.Errorf("scan price: %w", err)
		}
		p.Date = time.Unix(ts, 0).UTC()
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return points, true, nil
}

func (c *SQLiteCache) Store(ctx context.Context, key CacheKey, points []model.PricePoint) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prices WHERE series_id IN (SELECT id FROM series
		WHERE provider = ? AND symbol = ? AND aggregation = ? AND fetch_day = ?)`,
		key.Provider, key.Symbol, string(key.Aggregation), key.Day); err != nil {
		return fmt.Errorf("clear prices: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM series
		WHERE provider = ? AND symbol = ? AND aggregation = ? AND fetch_day = ?`,
		key.Provider, key.Symbol, string(key.Aggregation), key.Day); err != nil {
		return fmt.Errorf("clear series: %w", err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO series
		(provider, symbol, aggregation, fetch_day, points, created_at)
		VALUES (?,?,?,?,?,?)`,
		key.Provider, key.Symbol, string(key.Aggregation), key.Day, len(points), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO prices (series_id, date, close) VALUES (?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, id, p.Date.Unix(), p.Close); err != nil {
			return fmt.Errorf("insert price: %w", err)
		}
	}
	return tx.Commit()
}

func (c *SQLiteCache) Prune(ctx context.Context, day string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(ctx, `DELETE FROM prices WHERE series_id IN
		(SELECT id FROM series WHERE fetch_day < ?)`, day); err != nil {
		return 0, fmt.Errorf("prune prices: %w", err)
	}
	res, err := c.db.ExecContext(ctx, `DELETE FROM series WHERE fetch_day < ?`, day)
	if err != nil {
		return 0, fmt.Errorf("prune series: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) Close() error {
	log.Println("[INFO] closing sqlite price cache")
	return c.db.Close()
}
