// Package persistence provides SQLite-backed world saves and the portable
// JSON save-file codec.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/homestead/internal/economy"
	"github.com/talgya/homestead/internal/game"
	"github.com/talgya/homestead/internal/world"
)

// DB wraps a SQLite connection for world state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tiles (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		data_json TEXT NOT NULL,
		PRIMARY KEY (x, y)
	);

	CREATE TABLE IF NOT EXISTS areas (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		data_json TEXT NOT NULL,
		PRIMARY KEY (x, y)
	);

	CREATE TABLE IF NOT EXISTS ledger (
		id TEXT PRIMARY KEY,
		ts INTEGER NOT NULL,
		delta INTEGER NOT NULL,
		reason TEXT NOT NULL,
		balance_before INTEGER NOT NULL,
		balance_after INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_ledger_ts ON ledger(ts);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveGame performs a full-replace save of the exported world state in one
// transaction.
func (db *DB) SaveGame(ws game.WorldState) error {
	slog.Info("saving world state",
		"tiles", len(ws.Tiles), "areas", len(ws.Areas), "coins", ws.Coins)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"tiles", "areas", "ledger"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	tileStmt, err := tx.Preparex("INSERT INTO tiles (x, y, data_json) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer tileStmt.Close()
	for key, t := range ws.Tiles {
		c, err := world.ParseKey(key)
		if err != nil {
			return fmt.Errorf("tile key: %w", err)
		}
		data, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshal tile %s: %w", key, err)
		}
		if _, err := tileStmt.Exec(c.X, c.Y, string(data)); err != nil {
			return fmt.Errorf("insert tile %s: %w", key, err)
		}
	}

	areaStmt, err := tx.Preparex("INSERT INTO areas (x, y, data_json) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer areaStmt.Close()
	for key, a := range ws.Areas {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal area %s: %w", key, err)
		}
		if _, err := areaStmt.Exec(a.Coord.X, a.Coord.Y, string(data)); err != nil {
			return fmt.Errorf("insert area %s: %w", key, err)
		}
	}

	ledgerStmt, err := tx.Preparex(`INSERT INTO ledger
		(id, ts, delta, reason, balance_before, balance_after)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer ledgerStmt.Close()
	for _, e := range ws.Ledger {
		if _, err := ledgerStmt.Exec(
			e.ID, e.Timestamp.UnixMilli(), e.Delta, e.Reason,
			e.BalanceBefore, e.BalanceAfter,
		); err != nil {
			return fmt.Errorf("insert ledger entry %s: %w", e.ID, err)
		}
	}

	metaStmt, err := tx.Preparex("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer metaStmt.Close()
	meta := map[string]string{
		"version":  SaveVersion,
		"coins":    fmt.Sprintf("%d", ws.Coins),
		"saved_at": fmt.Sprintf("%d", ws.SavedAt.UnixMilli()),
	}
	for k, v := range meta {
		if _, err := metaStmt.Exec(k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("world state saved")
	return nil
}

// HasSave reports whether the database holds a prior save.
func (db *DB) HasSave() bool {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = 'saved_at'")
	return err == nil
}

// LoadGame reads the whole saved world state back out. The result is not
// applied anywhere; the caller passes it to Game.RestoreState.
func (db *DB) LoadGame() (game.WorldState, error) {
	var ws game.WorldState
	ws.Tiles = make(map[string]*world.Tile)
	ws.Areas = make(map[string]*world.Area)

	type row struct {
		X        int    `db:"x"`
		Y        int    `db:"y"`
		DataJSON string `db:"data_json"`
	}

	var tileRows []row
	if err := db.conn.Select(&tileRows, "SELECT x, y, data_json FROM tiles"); err != nil {
		return ws, fmt.Errorf("load tiles: %w", err)
	}
	for _, r := range tileRows {
		var t world.Tile
		if err := json.Unmarshal([]byte(r.DataJSON), &t); err != nil {
			return ws, fmt.Errorf("tile (%d,%d): %w", r.X, r.Y, err)
		}
		ws.Tiles[world.Coord{X: r.X, Y: r.Y}.Key()] = &t
	}

	var areaRows []row
	if err := db.conn.Select(&areaRows, "SELECT x, y, data_json FROM areas"); err != nil {
		return ws, fmt.Errorf("load areas: %w", err)
	}
	for _, r := range areaRows {
		var a world.Area
		if err := json.Unmarshal([]byte(r.DataJSON), &a); err != nil {
			return ws, fmt.Errorf("area (%d,%d): %w", r.X, r.Y, err)
		}
		a.Coord = world.Coord{X: r.X, Y: r.Y}
		ws.Areas[a.Coord.Key()] = &a
	}

	type ledgerRow struct {
		ID            string `db:"id"`
		TS            int64  `db:"ts"`
		Delta         int    `db:"delta"`
		Reason        string `db:"reason"`
		BalanceBefore int    `db:"balance_before"`
		BalanceAfter  int    `db:"balance_after"`
	}
	var ledgerRows []ledgerRow
	if err := db.conn.Select(&ledgerRows, "SELECT id, ts, delta, reason, balance_before, balance_after FROM ledger ORDER BY ts"); err != nil {
		return ws, fmt.Errorf("load ledger: %w", err)
	}
	for _, r := range ledgerRows {
		ws.Ledger = append(ws.Ledger, economy.Entry{
			ID:            r.ID,
			Timestamp:     time.UnixMilli(r.TS),
			Delta:         r.Delta,
			Reason:        r.Reason,
			BalanceBefore: r.BalanceBefore,
			BalanceAfter:  r.BalanceAfter,
		})
	}

	coinsStr, err := db.getMeta("coins")
	if err != nil {
		return ws, fmt.Errorf("load coins: %w", err)
	}
	if _, err := fmt.Sscanf(coinsStr, "%d", &ws.Coins); err != nil {
		return ws, fmt.Errorf("parse coins %q: %w", coinsStr, err)
	}

	return ws, nil
}

func (db *DB) getMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("meta %s missing", key)
	}
	return value, err
}

// RecentTransactions returns the most recent N ledger entries, newest first.
func (db *DB) RecentTransactions(limit int) ([]economy.Entry, error) {
	type ledgerRow struct {
		ID            string `db:"id"`
		TS            int64  `db:"ts"`
		Delta         int    `db:"delta"`
		Reason        string `db:"reason"`
		BalanceBefore int    `db:"balance_before"`
		BalanceAfter  int    `db:"balance_after"`
	}
	var rows []ledgerRow
	err := db.conn.Select(&rows,
		"SELECT id, ts, delta, reason, balance_before, balance_after FROM ledger ORDER BY ts DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	out := make([]economy.Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, economy.Entry{
			ID:            r.ID,
			Timestamp:     time.UnixMilli(r.TS),
			Delta:         r.Delta,
			Reason:        r.Reason,
			BalanceBefore: r.BalanceBefore,
			BalanceAfter:  r.BalanceAfter,
		})
	}
	return out, nil
}
