package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
)

// QueryParams narrows a query.
type QueryParams struct {
	// Where is a condition without the WHERE keyword, such as
	// "Handler = ?".
	Where string

	// Args fill the placeholders in Where.
	Args []any

	// OrderBy is a sort clause without the ORDER BY keywords.
	OrderBy string

	// Limit caps the number of rows. Zero means no limit.
	Limit int

	// Offset skips rows. It is only used together with Limit.
	Offset int
}

// A Reader reads records back into structs.
type Reader struct {
	db    *sql.DB
	types map[string]reflect.Type
}

// NewReader opens the recording in the named SQLite file.
func NewReader(filename string) (*Reader, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}

	return NewReaderWithDB(db), nil
}

// NewReaderWithDB creates a reader on an open database.
func NewReaderWithDB(db *sql.DB) *Reader {
	return &Reader{
		db:    db,
		types: make(map[string]reflect.Type),
	}
}

// MapTable binds a table to the struct type of sample. A table must be
// mapped before it is queried.
func (r *Reader) MapTable(table string, sample any) {
	r.types[table] = reflect.TypeOf(sample)
}

// Query returns the matching records as pointers to the mapped struct type,
// together with the number of rows matching Where regardless of Limit.
func (r *Reader) Query(
	ctx context.Context,
	table string,
	params QueryParams,
) ([]any, int, error) {
	t, ok := r.types[table]
	if !ok {
		return nil, 0, fmt.Errorf("%s: %w", table, ErrNoSuchTable)
	}

	where := ""
	if params.Where != "" {
		where = " WHERE " + params.Where
	}

	var total int

	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+table+where, params.Args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := "SELECT * FROM " + table + where
	if params.OrderBy != "" {
		query += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records, err := scanRows(rows, t)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func scanRows(rows *sql.Rows, t reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []any

	for rows.Next() {
		ptr := reflect.New(t)
		targets := make([]any, len(columns))

		for i, col := range columns {
			if f := ptr.Elem().FieldByName(col); f.IsValid() && f.CanSet() {
				targets[i] = f.Addr().Interface()
				continue
			}

			var discard any
			targets[i] = &discard
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		records = append(records, ptr.Interface())
	}

	return records, rows.Err()
}

// Close closes the database.
func (r *Reader) Close() error {
	return r.db.Close()
}
