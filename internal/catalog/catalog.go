// Package catalog stores the equipment catalog in a local SQLite
// database. Blocks reference catalog entries through their CatalogRef
// field; the catalog supplies ratings and display names for the
// property panels and the exporter.
package catalog

import (
	"database/sql"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"sld-editor/internal/model"
	"sld-editor/pkg/apperrors"
)

// Entry is one piece of equipment in the catalog.
type Entry struct {
	Ref          string
	Kind         model.Kind
	Manufacturer string
	ModelName    string
	// RatedAmps is the continuous current rating. Zero means unrated
	// (locations, busbars).
	RatedAmps float64
	// RatedVolts is the nominal operating voltage.
	RatedVolts float64
	// WireGauge is the conductor gauge designation, empty for
	// non-conductor equipment.
	WireGauge string
}

// DB wraps the catalog database connection.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the catalog database at dbPath.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "create catalog directory")
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "open catalog")
	}
	// SQLite only supports one writer; a single connection avoids SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "migrate catalog")
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS equipment (
			ref TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			manufacturer TEXT NOT NULL DEFAULT '',
			model_name TEXT NOT NULL DEFAULT '',
			rated_amps REAL NOT NULL DEFAULT 0,
			rated_volts REAL NOT NULL DEFAULT 0,
			wire_gauge TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_equipment_kind ON equipment(kind)`,
	}
	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

// Insert adds an entry to the catalog. An empty Ref gets a generated
// one; the assigned ref is returned.
func (db *DB) Insert(e Entry) (string, error) {
	if e.Kind == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "catalog entry needs a kind")
	}
	if e.Ref == "" {
		e.Ref = uuid.NewString()
	}
	_, err := db.conn.Exec(
		`INSERT INTO equipment (ref, kind, manufacturer, model_name, rated_amps, rated_volts, wire_gauge)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Ref, e.Kind, e.Manufacturer, e.ModelName, e.RatedAmps, e.RatedVolts, e.WireGauge)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodePersistence, err, "insert catalog entry")
	}
	return e.Ref, nil
}

// Lookup fetches the entry a block references.
func (db *DB) Lookup(ref string) (Entry, error) {
	var e Entry
	err := db.conn.QueryRow(
		`SELECT ref, kind, manufacturer, model_name, rated_amps, rated_volts, wire_gauge
		 FROM equipment WHERE ref = ?`, ref).
		Scan(&e.Ref, &e.Kind, &e.Manufacturer, &e.ModelName, &e.RatedAmps, &e.RatedVolts, &e.WireGauge)
	if err == sql.ErrNoRows {
		return Entry{}, apperrors.New(apperrors.ErrCodeNotFound, "catalog entry %q", ref)
	}
	if err != nil {
		return Entry{}, apperrors.Wrap(apperrors.ErrCodePersistence, err, "lookup catalog entry")
	}
	return e, nil
}

// ByKind returns all entries for one equipment kind, ordered by
// manufacturer then model.
func (db *DB) ByKind(kind model.Kind) ([]Entry, error) {
	rows, err := db.conn.Query(
		`SELECT ref, kind, manufacturer, model_name, rated_amps, rated_volts, wire_gauge
		 FROM equipment WHERE kind = ? ORDER BY manufacturer, model_name`, kind)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "query catalog by kind")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Ref, &e.Kind, &e.Manufacturer, &e.ModelName,
			&e.RatedAmps, &e.RatedVolts, &e.WireGauge); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "scan catalog entry")
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Kinds returns the distinct equipment kinds present in the catalog.
func (db *DB) Kinds() ([]model.Kind, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT kind FROM equipment`)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "query catalog kinds")
	}
	defer rows.Close()

	var kinds []model.Kind
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodePersistence, err, "scan catalog kind")
		}
		kinds = append(kinds, model.Kind(k))
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds, rows.Err()
}

// Seed populates an empty catalog with a starter set of common
// equipment so a fresh install has something to pick from.
func (db *DB) Seed() error {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM equipment`).Scan(&count); err != nil {
		return apperrors.Wrap(apperrors.ErrCodePersistence, err, "count catalog entries")
	}
	if count > 0 {
		return nil
	}
	for _, e := range builtinEntries {
		if _, err := db.Insert(e); err != nil {
			return err
		}
	}
	return nil
}

var builtinEntries = []Entry{
	{Kind: model.KindSupply, Manufacturer: "Generic", ModelName: "Shore inlet 30A", RatedAmps: 30, RatedVolts: 120},
	{Kind: model.KindSupply, Manufacturer: "Generic", ModelName: "Shore inlet 50A", RatedAmps: 50, RatedVolts: 240},
	{Kind: model.KindAlternator, Manufacturer: "Balmar", ModelName: "6-Series 120A", RatedAmps: 120, RatedVolts: 14.4},
	{Kind: model.KindConductor, Manufacturer: "Ancor", ModelName: "Marine duplex 10 AWG", RatedAmps: 60, WireGauge: "10 AWG"},
	{Kind: model.KindConductor, Manufacturer: "Ancor", ModelName: "Marine duplex 4 AWG", RatedAmps: 160, WireGauge: "4 AWG"},
	{Kind: model.KindBusbar, Manufacturer: "Blue Sea", ModelName: "ST Blade 12-way", RatedAmps: 100, RatedVolts: 32},
	{Kind: model.KindTransformerUPS, Manufacturer: "Victron", ModelName: "MultiPlus 12/3000", RatedAmps: 120, RatedVolts: 12},
	{Kind: model.KindLoad, Manufacturer: "Generic", ModelName: "Cabin lighting", RatedAmps: 5, RatedVolts: 12},
}
