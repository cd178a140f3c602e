package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/gountain/catalog/internal/catalog"
	"github.com/gountain/catalog/internal/domain"
)

var (
	// ErrNotFound is returned when a destination id is unknown.
	ErrNotFound = errors.New("destination not found")
	// ErrExists is returned when creating a destination whose id is taken.
	ErrExists = errors.New("destination already exists")
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS destinations (
  id TEXT PRIMARY KEY,
  nombre TEXT NOT NULL,
  continente TEXT NOT NULL DEFAULT '',
  tipo TEXT NOT NULL DEFAULT '',
  altitud_m REAL,
  id_orden INTEGER NOT NULL DEFAULT 0,
  doc_json TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_destinations_continente ON destinations(continente);`); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_destinations_altitud ON destinations(altitud_m);`); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) CountDestinations(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&n)
	return n, err
}

const insertSQL = `
INSERT %s INTO destinations (id, nombre, continente, tipo, altitud_m, id_orden, doc_json)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

func rowArgs(d domain.Destination) ([]any, error) {
	doc, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshal destination %s: %w", d.ID, err)
	}
	var altitude any
	if d.AltitudeM != nil {
		altitude = *d.AltitudeM
	}
	return []any{d.ID, d.Name, d.Continent, d.Type, altitude, d.Order, string(doc)}, nil
}

// UpsertMany inserts the initial dataset without duplicating by id.
func (s *SQLiteStore) UpsertMany(ctx context.Context, items []domain.Destination) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(insertSQL, "OR IGNORE"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range items {
		args, err := rowArgs(d)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CreateDestination stores d, assigning a random id when it has none and
// the next catalog order when Order is unset.
func (s *SQLiteStore) CreateDestination(ctx context.Context, d domain.Destination) (domain.Destination, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Order == 0 {
		row := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id_orden), 0) + 1 FROM destinations`)
		if err := row.Scan(&d.Order); err != nil {
			return d, fmt.Errorf("next order: %w", err)
		}
	}
	args, err := rowArgs(d)
	if err != nil {
		return d, err
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(insertSQL, ""), args...)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return d, fmt.Errorf("%w: %s", ErrExists, d.ID)
	}
	return d, err
}

func (s *SQLiteStore) DeleteDestination(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM destinations WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (s *SQLiteStore) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc_json FROM destinations WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Destination{}, ErrNotFound
	}
	if err != nil {
		return domain.Destination{}, err
	}
	var d domain.Destination
	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return domain.Destination{}, fmt.Errorf("decode destination %s: %w", id, err)
	}
	return d, nil
}

// AllDestinations returns every stored destination in catalog order.
func (s *SQLiteStore) AllDestinations(ctx context.Context) ([]domain.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_json FROM destinations ORDER BY id_orden, id`)
	if err != nil {
		return nil, err
	}
	return scanDocs(rows)
}

func (s *SQLiteStore) ListDestinations(ctx context.Context, limit, offset int) ([]domain.Destination, int, error) {
	limit, offset = normalizePage(limit, offset)

	total, err := s.CountDestinations(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT doc_json FROM destinations
ORDER BY id_orden, id
LIMIT ? OFFSET ?
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	out, err := scanDocs(rows)
	return out, total, err
}

// FilterDestinations narrows by continent, type and altitude in SQL and
// applies the full filter predicate to the remaining rows, so the result is
// exactly what catalog.WithinFilters accepts.
func (s *SQLiteStore) FilterDestinations(ctx context.Context, f catalog.FilterState) ([]domain.Destination, error) {
	where := make([]string, 0, 4)
	args := make([]any, 0, 8)

	if f.Continent.Len() > 0 {
		where = append(where, "continente IN ("+placeholders(f.Continent.Len())+")")
		for _, v := range f.Continent.Values() {
			args = append(args, v)
		}
	}
	if f.Type.Len() > 0 {
		where = append(where, "tipo IN ("+placeholders(f.Type.Len())+")")
		for _, v := range f.Type.Values() {
			args = append(args, v)
		}
	}
	if f.Altitude.Min != nil {
		where = append(where, "altitud_m >= ?")
		args = append(args, *f.Altitude.Min)
	}
	if f.Altitude.Max != nil {
		where = append(where, "altitud_m <= ?")
		args = append(args, *f.Altitude.Max)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, "SELECT doc_json FROM destinations "+whereSQL+" ORDER BY id_orden, id", args...)
	if err != nil {
		return nil, err
	}
	candidates, err := scanDocs(rows)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Destination, 0, len(candidates))
	for _, d := range candidates {
		if len(d.Seasons) == 0 {
			d.Seasons = catalog.MonthsToSeasons(d.Months)
		}
		if catalog.WithinFilters(d, f) {
			matched = append(matched, d)
		}
	}
	return matched, nil
}

// ListDestinationsFiltered pages through FilterDestinations.
func (s *SQLiteStore) ListDestinationsFiltered(ctx context.Context, f catalog.FilterState, limit, offset int) ([]domain.Destination, int, error) {
	limit, offset = normalizePage(limit, offset)

	matched, err := s.FilterDestinations(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := min(offset+limit, total)
	return matched[offset:end], total, nil
}

func scanDocs(rows *sql.Rows) ([]domain.Destination, error) {
	defer rows.Close()

	var out []domain.Destination
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var d domain.Destination
		if err := json.Unmarshal([]byte(doc), &d); err != nil {
			return nil, fmt.Errorf("decode destination: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
