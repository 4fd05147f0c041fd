package snapshot

import (
	"database/sql"
	"fmt"

	"github.com/phanxgames/geonet"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite snapshot database.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates a SQLite snapshot database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the database schema if it doesn't exist. Node ids are
// not unique; seq keeps the input order so last-wins lookups survive a round
// trip.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS nodes (
			seq INTEGER PRIMARY KEY,
			id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			lat REAL,
			lon REAL,
			size REAL,
			origin REAL NOT NULL DEFAULT 0,
			embarkation REAL NOT NULL DEFAULT 0,
			disembarkation REAL NOT NULL DEFAULT 0,
			post_disembarkation REAL NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS edges (
			seq INTEGER PRIMARY KEY,
			source TEXT NOT NULL,
			target TEXT NOT NULL,
			kind TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);
	`
	_, err := db.Exec(schema)
	return err
}

// Write replaces the stored snapshot with snap.
func (d *DB) Write(snap geonet.Snapshot) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM nodes`); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM edges`); err != nil {
		return fmt.Errorf("clearing edges: %w", err)
	}

	nodeStmt, err := tx.Prepare(`INSERT INTO nodes
		(seq, id, name, lat, lon, size, origin, embarkation, disembarkation, post_disembarkation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()
	for i, n := range snap.Nodes {
		w := n.Weights
		if _, err := nodeStmt.Exec(i, n.ID, n.Name, nullFloat(n.Lat), nullFloat(n.Lon), nullFloat(n.Size),
			w.Origin, w.Embarkation, w.Disembarkation, w.PostDisembarkation); err != nil {
			return fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.Prepare(`INSERT INTO edges (seq, source, target, kind) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()
	for i, e := range snap.Edges {
		if _, err := edgeStmt.Exec(i, e.Source, e.Target, string(e.Kind)); err != nil {
			return fmt.Errorf("inserting edge %s->%s: %w", e.Source, e.Target, err)
		}
	}

	return tx.Commit()
}

// Read loads the stored snapshot in insertion order.
func (d *DB) Read() (geonet.Snapshot, error) {
	var snap geonet.Snapshot

	rows, err := d.db.Query(`SELECT id, name, lat, lon, size,
		origin, embarkation, disembarkation, post_disembarkation
		FROM nodes ORDER BY seq`)
	if err != nil {
		return snap, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var n geonet.Node
		var lat, lon, size sql.NullFloat64
		if err := rows.Scan(&n.ID, &n.Name, &lat, &lon, &size,
			&n.Weights.Origin, &n.Weights.Embarkation, &n.Weights.Disembarkation,
			&n.Weights.PostDisembarkation); err != nil {
			return snap, fmt.Errorf("scanning node: %w", err)
		}
		n.Lat, n.Lon, n.Size = floatPtr(lat), floatPtr(lon), floatPtr(size)
		snap.Nodes = append(snap.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterating nodes: %w", err)
	}

	erows, err := d.db.Query(`SELECT source, target, kind FROM edges ORDER BY seq`)
	if err != nil {
		return snap, fmt.Errorf("querying edges: %w", err)
	}
	defer erows.Close()
	for erows.Next() {
		var e geonet.Edge
		var kind string
		if err := erows.Scan(&e.Source, &e.Target, &kind); err != nil {
			return snap, fmt.Errorf("scanning edge: %w", err)
		}
		e.Kind = geonet.EdgeKind(kind)
		snap.Edges = append(snap.Edges, e)
	}
	return snap, erows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return geonet.Float(v.Float64)
}
