// Package datarecording stores flat records in SQLite tables.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fatih/structs"
	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

var (
	// ErrUnsupportedField is returned when a record has a field that cannot
	// be stored in a column.
	ErrUnsupportedField = errors.New("unsupported field type")

	// ErrNoSuchTable is returned when inserting into an unknown table.
	ErrNoSuchTable = errors.New("no such table")

	// ErrTableExists is returned when a table is created twice.
	ErrTableExists = errors.New("table already exists")
)

// DefaultBatchSize is how many records are buffered before a flush.
const DefaultBatchSize = 4096

// A Recorder stores records in tables. A record is a struct whose exported
// fields are all scalars; each field becomes a column.
type Recorder interface {
	// CreateTable creates a table whose columns follow sample.
	CreateTable(table string, sample any) error

	// Insert buffers one record for table.
	Insert(table string, record any) error

	// Tables returns the names of the tables created so far.
	Tables() []string

	// Flush writes all buffered records.
	Flush() error

	// Close flushes and closes the database.
	Close() error
}

// Open creates a recorder writing to a new SQLite file at path plus the
// ".sqlite3" extension. An empty path picks a unique name. The recorder
// flushes when the process exits through atexit.
func Open(path string) (Recorder, error) {
	if path == "" {
		path = "fifoemu_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("recording %s: %w", filename, os.ErrExist)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(os.Stderr, "Recording to %s\n", filename)

	return newSQLiteRecorder(db), nil
}

// OpenDB creates a recorder on an open database.
func OpenDB(db *sql.DB) Recorder {
	return newSQLiteRecorder(db)
}

func newSQLiteRecorder(db *sql.DB) *sqliteRecorder {
	r := &sqliteRecorder{
		db:        db,
		batchSize: DefaultBatchSize,
		tables:    make(map[string]*table),
	}

	atexit.Register(func() {
		if err := r.Flush(); err != nil {
			log.Printf("flushing recording: %v", err)
		}
	})

	return r
}

type table struct {
	name    string
	columns []string
	pending [][]any
}

type sqliteRecorder struct {
	db        *sql.DB
	tables    map[string]*table
	order     []string
	batchSize int
	buffered  int
	closed    bool
}

func columnsOf(sample any) ([]string, error) {
	if !structs.IsStruct(sample) {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrUnsupportedField, sample)
	}

	fields := structs.Fields(sample)
	names := make([]string, 0, len(fields))

	for _, f := range fields {
		if !scalar(f.Kind().String()) {
			return nil, fmt.Errorf("%w: %s is %s",
				ErrUnsupportedField, f.Name(), f.Kind())
		}

		names = append(names, f.Name())
	}

	return names, nil
}

func scalar(kind string) bool {
	switch kind {
	case "bool", "string",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64":
		return true
	default:
		return false
	}
}

func (r *sqliteRecorder) CreateTable(name string, sample any) error {
	if _, ok := r.tables[name]; ok {
		return fmt.Errorf("%s: %w", name, ErrTableExists)
	}

	columns, err := columnsOf(sample)
	if err != nil {
		return err
	}

	stmt := "CREATE TABLE " + name +
		" (\n\t" + strings.Join(columns, ",\n\t") + "\n);"
	if _, err := r.db.Exec(stmt); err != nil {
		return fmt.Errorf("creating table %s: %w", name, err)
	}

	r.tables[name] = &table{name: name, columns: columns}
	r.order = append(r.order, name)

	return nil
}

func (r *sqliteRecorder) Insert(name string, record any) error {
	t, ok := r.tables[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNoSuchTable)
	}

	values := structs.Values(record)
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: %T does not match table %s",
			ErrUnsupportedField, record, name)
	}

	t.pending = append(t.pending, values)
	r.buffered++

	if r.buffered >= r.batchSize {
		return r.Flush()
	}

	return nil
}

func (r *sqliteRecorder) Tables() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)

	return names
}

func (r *sqliteRecorder) Flush() error {
	if r.closed || r.buffered == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	for _, name := range r.order {
		if err := r.flushTable(tx, r.tables[name]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.buffered = 0

	return nil
}

func (r *sqliteRecorder) flushTable(tx *sql.Tx, t *table) error {
	if len(t.pending) == 0 {
		return nil
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")

	stmt, err := tx.Prepare("INSERT INTO " + t.name + " VALUES (" + marks + ")")
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", t.name, err)
	}
	defer stmt.Close()

	for _, values := range t.pending {
		if _, err := stmt.Exec(values...); err != nil {
			return fmt.Errorf("inserting into %s: %w", t.name, err)
		}
	}

	t.pending = nil

	return nil
}

func (r *sqliteRecorder) Close() error {
	if r.closed {
		return nil
	}

	if err := r.Flush(); err != nil {
		return err
	}

	r.closed = true

	return r.db.Close()
}
