package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/checkniner/internal/types"
)

// SQLite is a Store backed by a single-connection SQLite database.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

var (
	_ Store = (*SQLite)(nil)
	_ Store = (*Postgres)(nil)
)

// OpenSQLite opens or creates a SQLite database at path.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// Pragmas are per connection, so keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set %q: %w", pragma, err)
		}
	}

	logger = orDiscard(logger)
	logger.Debug("connected", "backend", "sqlite", "path", path)
	return &SQLite{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (d *SQLite) Close() error {
	return d.db.Close()
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pilots (
	username    TEXT PRIMARY KEY,
	first_name  TEXT NOT NULL DEFAULT '',
	last_name   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS airstrips (
	ident    TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	is_base  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS airstrip_bases (
	airstrip  TEXT NOT NULL REFERENCES airstrips(ident) ON DELETE CASCADE,
	base      TEXT NOT NULL REFERENCES airstrips(ident) ON DELETE CASCADE,
	PRIMARY KEY (airstrip, base),
	CHECK (airstrip <> base)
);

CREATE INDEX IF NOT EXISTS idx_airstrip_bases_base ON airstrip_bases(base);

CREATE TABLE IF NOT EXISTS aircraft_types (
	name           TEXT PRIMARY KEY,
	sort_position  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS checkouts (
	id             TEXT PRIMARY KEY,
	pilot          TEXT NOT NULL REFERENCES pilots(username) ON DELETE CASCADE,
	airstrip       TEXT NOT NULL REFERENCES airstrips(ident) ON DELETE CASCADE,
	aircraft_type  TEXT NOT NULL REFERENCES aircraft_types(name) ON DELETE CASCADE,
	date           TEXT NOT NULL DEFAULT (date('now')),
	UNIQUE (pilot, airstrip, aircraft_type)
);

CREATE INDEX IF NOT EXISTS idx_checkouts_airstrip_type ON checkouts(airstrip, aircraft_type);
`

// CreateSchema creates the SQLite tables.
func (d *SQLite) CreateSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func (d *SQLite) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Snapshot reads every table inside one transaction.
func (d *SQLite) Snapshot(ctx context.Context) (*types.Snapshot, error) {
	snap := &types.Snapshot{}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		snap.Pilots, err = sqliteCollect(ctx, tx,
			`SELECT username, first_name, last_name FROM pilots ORDER BY username`,
			func(rows *sql.Rows) (types.Pilot, error) {
				var p types.Pilot
				err := rows.Scan(&p.Username, &p.FirstName, &p.LastName)
				return p, err
			})
		if err != nil {
			return fmt.Errorf("failed to load pilots: %w", err)
		}

		snap.Airstrips, err = sqliteCollect(ctx, tx,
			`SELECT ident, name, is_base FROM airstrips ORDER BY ident`,
			func(rows *sql.Rows) (types.Airstrip, error) {
				var a types.Airstrip
				err := rows.Scan(&a.Ident, &a.Name, &a.IsBase)
				return a, err
			})
		if err != nil {
			return fmt.Errorf("failed to load airstrips: %w", err)
		}

		links, err := sqliteCollect(ctx, tx,
			`SELECT airstrip, base FROM airstrip_bases ORDER BY airstrip, base`,
			func(rows *sql.Rows) ([2]string, error) {
				var link [2]string
				err := rows.Scan(&link[0], &link[1])
				return link, err
			})
		if err != nil {
			return fmt.Errorf("failed to load airstrip bases: %w", err)
		}
		attachBases(snap.Airstrips, links)

		snap.AircraftTypes, err = sqliteCollect(ctx, tx,
			`SELECT name, sort_position FROM aircraft_types ORDER BY sort_position, name`,
			func(rows *sql.Rows) (types.AircraftType, error) {
				var t types.AircraftType
				err := rows.Scan(&t.Name, &t.SortPosition)
				return t, err
			})
		if err != nil {
			return fmt.Errorf("failed to load aircraft types: %w", err)
		}

		snap.Facts, err = sqliteCollect(ctx, tx,
			`SELECT pilot, airstrip, aircraft_type FROM checkouts ORDER BY pilot, airstrip, aircraft_type`,
			func(rows *sql.Rows) (types.CompletionFact, error) {
				var f types.CompletionFact
				err := rows.Scan(&f.Pilot, &f.Airstrip, &f.AircraftType)
				return f, err
			})
		if err != nil {
			return fmt.Errorf("failed to load checkouts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Debug("snapshot loaded",
		"pilots", len(snap.Pilots),
		"airstrips", len(snap.Airstrips),
		"aircraft_types", len(snap.AircraftTypes),
		"facts", len(snap.Facts))
	return snap, nil
}

// UpsertPilot creates a pilot or updates its name.
func (d *SQLite) UpsertPilot(ctx context.Context, p types.Pilot) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid pilot: %w", err)
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO pilots (username, first_name, last_name) VALUES (?, ?, ?)
		 ON CONFLICT (username) DO UPDATE SET first_name = excluded.first_name, last_name = excluded.last_name`,
		p.Username, p.FirstName, p.LastName,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pilot %s: %w", p.Username, err)
	}
	return nil
}

// UpsertAirstrip creates an airstrip or updates its name and base flag.
func (d *SQLite) UpsertAirstrip(ctx context.Context, a types.Airstrip) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid airstrip: %w", err)
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO airstrips (ident, name, is_base) VALUES (?, ?, ?)
		 ON CONFLICT (ident) DO UPDATE SET name = excluded.name, is_base = excluded.is_base`,
		a.Ident, a.Name, a.IsBase,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert airstrip %s: %w", a.Ident, err)
	}
	return nil
}

// UpsertAircraftType creates an aircraft type or updates its sort position.
func (d *SQLite) UpsertAircraftType(ctx context.Context, t types.AircraftType) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid aircraft type: %w", err)
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO aircraft_types (name, sort_position) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET sort_position = excluded.sort_position`,
		t.Name, t.SortPosition,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert aircraft type %s: %w", t.Name, err)
	}
	return nil
}

// AddCheckouts records the requested checkouts in one transaction.
func (d *SQLite) AddCheckouts(ctx context.Context, req types.CheckoutEditRequest) ([]CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checkout request: %w", err)
	}

	var results []CheckoutResult
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkCheckoutRefs(ctx, sqliteExists(tx), req); err != nil {
			return err
		}

		results = make([]CheckoutResult, 0, len(req.AircraftTypes))
		for _, name := range req.AircraftTypes {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO checkouts (id, pilot, airstrip, aircraft_type) VALUES (?, ?, ?, ?)
				 ON CONFLICT (pilot, airstrip, aircraft_type) DO NOTHING`,
				uuid.NewString(), req.Pilot, req.Airstrip, name,
			)
			if err != nil {
				return fmt.Errorf("failed to add checkout %s: %w", name, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to add checkout %s: %w", name, err)
			}
			outcome := OutcomeAlreadyExists
			if n > 0 {
				outcome = OutcomeAdded
			}
			results = append(results, CheckoutResult{AircraftType: name, Outcome: outcome})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("checkouts added",
		"actor", req.Actor, "pilot", req.Pilot, "airstrip", req.Airstrip, "aircraft_types", req.AircraftTypes)
	return results, nil
}

// RemoveCheckouts deletes the requested checkouts in one transaction.
func (d *SQLite) RemoveCheckouts(ctx context.Context, req types.CheckoutEditRequest) ([]CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checkout request: %w", err)
	}

	var results []CheckoutResult
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkCheckoutRefs(ctx, sqliteExists(tx), req); err != nil {
			return err
		}

		results = make([]CheckoutResult, 0, len(req.AircraftTypes))
		for _, name := range req.AircraftTypes {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM checkouts WHERE pilot = ? AND airstrip = ? AND aircraft_type = ?`,
				req.Pilot, req.Airstrip, name,
			); err != nil {
				return fmt.Errorf("failed to remove checkout %s: %w", name, err)
			}
			results = append(results, CheckoutResult{AircraftType: name, Outcome: OutcomeDeleted})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("checkouts removed",
		"actor", req.Actor, "pilot", req.Pilot, "airstrip", req.Airstrip, "aircraft_types", req.AircraftTypes)
	return results, nil
}

// AttachAirstrip adds base to the bases of airstrip. Attaching twice is a no-op.
func (d *SQLite) AttachAirstrip(ctx context.Context, airstrip, base string) error {
	if airstrip == base {
		return fmt.Errorf("airstrip %q: %w", airstrip, ErrSelfAttachment)
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		if err := sqliteCheckBase(ctx, tx, base); err != nil {
			return err
		}
		ok, err := sqliteExists(tx)(ctx, "airstrips", "ident", airstrip)
		if err != nil {
			return fmt.Errorf("failed to look up airstrip %q: %w", airstrip, err)
		}
		if !ok {
			return notFound("airstrip", airstrip)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO airstrip_bases (airstrip, base) VALUES (?, ?)
			 ON CONFLICT (airstrip, base) DO NOTHING`,
			airstrip, base,
		); err != nil {
			return fmt.Errorf("failed to attach %s to %s: %w", airstrip, base, err)
		}
		return nil
	})
}

// ImportAirstrips inserts each airstrip and attaches it to base in one transaction.
func (d *SQLite) ImportAirstrips(ctx context.Context, base string, airstrips []types.Airstrip, actor string) error {
	if err := checkImport(base, airstrips); err != nil {
		return err
	}

	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := sqliteCheckBase(ctx, tx, base); err != nil {
			return err
		}
		exists := sqliteExists(tx)
		for _, a := range airstrips {
			ok, err := exists(ctx, "airstrips", "ident", a.Ident)
			if err != nil {
				return fmt.Errorf("failed to look up airstrip %q: %w", a.Ident, err)
			}
			if ok {
				return fmt.Errorf("airstrip %q: %w", a.Ident, ErrAlreadyExists)
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO airstrips (ident, name, is_base) VALUES (?, ?, 0)`,
				a.Ident, a.Name,
			); err != nil {
				return fmt.Errorf("failed to insert airstrip %s: %w", a.Ident, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO airstrip_bases (airstrip, base) VALUES (?, ?)`,
				a.Ident, base,
			); err != nil {
				return fmt.Errorf("failed to attach %s to %s: %w", a.Ident, base, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.Info("airstrips imported", "actor", actor, "base", base, "count", len(airstrips))
	return nil
}

// SetAttachments replaces the airstrips attached to a base in one transaction.
func (d *SQLite) SetAttachments(ctx context.Context, req types.AttachmentRequest) (AttachmentChange, error) {
	if err := req.Validate(); err != nil {
		return AttachmentChange{}, fmt.Errorf("invalid attachment request: %w", err)
	}

	var change AttachmentChange
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if err := sqliteCheckBase(ctx, tx, req.Base); err != nil {
			return err
		}

		current, err := sqliteCollect(ctx, tx,
			`SELECT airstrip FROM airstrip_bases WHERE base = ?`,
			func(rows *sql.Rows) (string, error) {
				var ident string
				err := rows.Scan(&ident)
				return ident, err
			}, req.Base)
		if err != nil {
			return fmt.Errorf("failed to load attachments of %s: %w", req.Base, err)
		}

		change = PlanAttachments(req.Base, current, req.Airstrips)
		for _, ident := range change.Attached {
			ok, err := sqliteExists(tx)(ctx, "airstrips", "ident", ident)
			if err != nil {
				return fmt.Errorf("failed to look up airstrip %q: %w", ident, err)
			}
			if !ok {
				return notFound("airstrip", ident)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO airstrip_bases (airstrip, base) VALUES (?, ?)`,
				ident, req.Base,
			); err != nil {
				return fmt.Errorf("failed to attach %s to %s: %w", ident, req.Base, err)
			}
		}
		for _, ident := range change.Detached {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM airstrip_bases WHERE base = ? AND airstrip = ?`,
				req.Base, ident,
			); err != nil {
				return fmt.Errorf("failed to detach %s from %s: %w", ident, req.Base, err)
			}
		}
		return nil
	})
	if err != nil {
		return AttachmentChange{}, err
	}

	d.logger.Info("attachments updated",
		"actor", req.Actor, "base", req.Base, "attached", change.Attached, "detached", change.Detached)
	return change, nil
}

// sqliteCollect runs query and scans every row with scan.
func sqliteCollect[T any](ctx context.Context, tx *sql.Tx, query string, scan func(*sql.Rows) (T, error), args ...any) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func sqliteExists(tx *sql.Tx) existsFunc {
	return func(ctx context.Context, table, column, value string) (bool, error) {
		var ok bool
		query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = ?)`, table, column)
		err := tx.QueryRowContext(ctx, query, value).Scan(&ok)
		return ok, err
	}
}

func sqliteCheckBase(ctx context.Context, tx *sql.Tx, ident string) error {
	var isBase bool
	err := tx.QueryRowContext(ctx, `SELECT is_base FROM airstrips WHERE ident = ?`, ident).Scan(&isBase)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("base", ident)
		}
		return fmt.Errorf("failed to look up base %q: %w", ident, err)
	}
	if !isBase {
		return fmt.Errorf("airstrip %q: %w", ident, ErrNotABase)
	}
	return nil
}
