// Package persistence provides SQLite-based park snapshot storage: the tile
// grid, the animal population, the model counters, and a journal of notable
// events.
package persistence

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/henriktoth/safarimanager/internal/events"
	"github.com/henriktoth/safarimanager/internal/park"
	"github.com/henriktoth/safarimanager/internal/world"
)

// DB wraps a SQLite connection for park state persistence.
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
		kind TEXT NOT NULL,
		PRIMARY KEY (x, y)
	);

	CREATE TABLE IF NOT EXISTS animals (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL,
		pos_x REAL NOT NULL,
		pos_y REAL NOT NULL,
		age REAL NOT NULL,
		hunger REAL NOT NULL,
		thirst REAL NOT NULL,
		group_id INTEGER NOT NULL,
		chipped INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS groups (
		id INTEGER PRIMARY KEY,
		kind TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journal (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		day INTEGER NOT NULL,
		kind TEXT NOT NULL,
		agent_id INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		tour_id TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS park_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journal_day ON journal(day);
	CREATE INDEX IF NOT EXISTS idx_animals_group ON animals(group_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SavePark writes a full snapshot of the park (full replace).
func (db *DB) SavePark(md *park.Model) error {
	st := md.SaveState()
	slog.Info("saving park state", "tiles", len(st.Tiles), "animals", len(st.Animals), "day", st.Day)

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"tiles", "animals", "groups"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}

	tileStmt, err := tx.Preparex("INSERT INTO tiles (x, y, kind) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer tileStmt.Close()
	for _, t := range st.Tiles {
		if _, err := tileStmt.Exec(t.Cell.X, t.Cell.Y, t.Kind); err != nil {
			return fmt.Errorf("insert tile %v: %w", t.Cell, err)
		}
	}

	animalStmt, err := tx.Preparex(`INSERT INTO animals
		(id, kind, pos_x, pos_y, age, hunger, thirst, group_id, chipped)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer animalStmt.Close()
	for _, a := range st.Animals {
		chipped := 0
		if a.Chipped {
			chipped = 1
		}
		_, err := animalStmt.Exec(a.ID, a.Kind, a.Pos.X, a.Pos.Y,
			a.Age, a.Hunger, a.Thirst, a.Group, chipped)
		if err != nil {
			return fmt.Errorf("insert animal %d: %w", a.ID, err)
		}
	}

	for id, kind := range st.Groups {
		if _, err := tx.Exec("INSERT INTO groups (id, kind) VALUES (?, ?)", id, kind); err != nil {
			return fmt.Errorf("insert group %d: %w", id, err)
		}
	}

	meta := map[string]string{
		"width":   strconv.Itoa(st.Width),
		"height":  strconv.Itoa(st.Height),
		"day":     strconv.Itoa(st.Day),
		"clock":   strconv.FormatFloat(st.Clock, 'g', -1, 64),
		"balance": strconv.Itoa(st.Balance),
		"rating":  strconv.Itoa(st.Rating),
		"streak":  strconv.Itoa(st.Streak),
		"open":    strconv.FormatBool(st.Open),
		"next_id": strconv.Itoa(st.NextID),
	}
	for k, v := range meta {
		_, err := tx.Exec("INSERT OR REPLACE INTO park_meta (key, value) VALUES (?, ?)", k, v)
		if err != nil {
			return fmt.Errorf("save meta %q: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("park state saved")
	return nil
}

// LoadState reads the last saved snapshot. A database without a snapshot
// returns HasSnapshot false via HasSnapshot, not an error here.
func (db *DB) LoadState() (park.SavedState, error) {
	var st park.SavedState

	meta := make(map[string]string)
	rows, err := db.conn.Queryx("SELECT key, value FROM park_meta")
	if err != nil {
		return st, fmt.Errorf("load meta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return st, err
		}
		meta[k] = v
	}
	if len(meta) == 0 {
		return st, errors.New("no snapshot in database")
	}

	st.Width, _ = strconv.Atoi(meta["width"])
	st.Height, _ = strconv.Atoi(meta["height"])
	st.Day, _ = strconv.Atoi(meta["day"])
	st.Clock, _ = strconv.ParseFloat(meta["clock"], 64)
	st.Balance, _ = strconv.Atoi(meta["balance"])
	st.Rating, _ = strconv.Atoi(meta["rating"])
	st.Streak, _ = strconv.Atoi(meta["streak"])
	st.Open, _ = strconv.ParseBool(meta["open"])
	st.NextID, _ = strconv.Atoi(meta["next_id"])
	if st.Width <= 0 || st.Height <= 0 {
		return st, fmt.Errorf("snapshot has invalid dimensions %dx%d", st.Width, st.Height)
	}

	type tileRow struct {
		X    int    `db:"x"`
		Y    int    `db:"y"`
		Kind string `db:"kind"`
	}
	var tiles []tileRow
	if err := db.conn.Select(&tiles, "SELECT x, y, kind FROM tiles"); err != nil {
		return st, fmt.Errorf("load tiles: %w", err)
	}
	for _, t := range tiles {
		st.Tiles = append(st.Tiles, park.SavedTile{Cell: world.Cell{X: t.X, Y: t.Y}, Kind: t.Kind})
	}

	type animalRow struct {
		ID      int     `db:"id"`
		Kind    string  `db:"kind"`
		PosX    float64 `db:"pos_x"`
		PosY    float64 `db:"pos_y"`
		Age     float64 `db:"age"`
		Hunger  float64 `db:"hunger"`
		Thirst  float64 `db:"thirst"`
		GroupID int     `db:"group_id"`
		Chipped int     `db:"chipped"`
	}
	var animals []animalRow
	err = db.conn.Select(&animals,
		"SELECT id, kind, pos_x, pos_y, age, hunger, thirst, group_id, chipped FROM animals")
	if err != nil {
		return st, fmt.Errorf("load animals: %w", err)
	}
	for _, a := range animals {
		st.Animals = append(st.Animals, park.SavedAnimal{
			ID:      a.ID,
			Kind:    a.Kind,
			Pos:     world.Position{X: a.PosX, Y: a.PosY},
			Age:     a.Age,
			Hunger:  a.Hunger,
			Thirst:  a.Thirst,
			Group:   a.GroupID,
			Chipped: a.Chipped != 0,
		})
	}

	type groupRow struct {
		ID   int    `db:"id"`
		Kind string `db:"kind"`
	}
	var groups []groupRow
	if err := db.conn.Select(&groups, "SELECT id, kind FROM groups"); err != nil {
		return st, fmt.Errorf("load groups: %w", err)
	}
	st.Groups = make(map[int]string, len(groups))
	for _, g := range groups {
		st.Groups[g.ID] = g.Kind
	}

	return st, nil
}

// HasSnapshot reports whether the database holds a saved park.
func (db *DB) HasSnapshot() (bool, error) {
	var n int
	if err := db.conn.Get(&n, "SELECT COUNT(*) FROM park_meta"); err != nil {
		return false, err
	}
	return n > 0, nil
}

// AppendJournal appends the day's events to the journal.
func (db *DB) AppendJournal(day int, evs []events.Event) error {
	if len(evs) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range evs {
		_, err := tx.Exec(
			"INSERT INTO journal (day, kind, agent_id, amount, tour_id) VALUES (?, ?, ?, ?, ?)",
			day, e.Kind.String(), e.AgentID, e.Amount, e.TourID,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// JournalEntry is one persisted event row.
type JournalEntry struct {
	Day     int    `db:"day" json:"day"`
	Kind    string `db:"kind" json:"kind"`
	AgentID int    `db:"agent_id" json:"agent_id"`
	Amount  int    `db:"amount" json:"amount"`
	TourID  string `db:"tour_id" json:"tour_id,omitempty"`
}

// RecentJournal returns the most recent N journal entries, newest first.
func (db *DB) RecentJournal(limit int) ([]JournalEntry, error) {
	var entries []JournalEntry
	err := db.conn.Select(&entries,
		"SELECT day, kind, agent_id, amount, tour_id FROM journal ORDER BY id DESC LIMIT ?",
		limit,
	)
	return entries, err
}
