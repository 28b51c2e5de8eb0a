package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/checkniner/internal/types"
)

// Postgres is a Store backed by a PostgreSQL connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres establishes a connection pool to the database and verifies it.
func OpenPostgres(ctx context.Context, databaseURL string, logger *slog.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger = orDiscard(logger)
	logger.Debug("connected", "backend", "postgres", "max_conns", poolCfg.MaxConns)
	return &Postgres{pool: pool, logger: logger}, nil
}

// Close closes the connection pool
func (d *Postgres) Close() error {
	if d.pool != nil {
		d.pool.Close()
	}
	return nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS pilots (
	username    VARCHAR(150) PRIMARY KEY,
	first_name  VARCHAR(150) NOT NULL DEFAULT '',
	last_name   VARCHAR(150) NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS airstrips (
	ident    VARCHAR(4) PRIMARY KEY,
	name     VARCHAR(255) NOT NULL,
	is_base  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS airstrip_bases (
	airstrip  VARCHAR(4) NOT NULL REFERENCES airstrips(ident) ON DELETE CASCADE,
	base      VARCHAR(4) NOT NULL REFERENCES airstrips(ident) ON DELETE CASCADE,
	PRIMARY KEY (airstrip, base),
	CHECK (airstrip <> base)
);

CREATE INDEX IF NOT EXISTS idx_airstrip_bases_base ON airstrip_bases(base);

CREATE TABLE IF NOT EXISTS aircraft_types (
	name           VARCHAR(10) PRIMARY KEY,
	sort_position  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS checkouts (
	id             UUID PRIMARY KEY,
	pilot          VARCHAR(150) NOT NULL REFERENCES pilots(username) ON DELETE CASCADE,
	airstrip       VARCHAR(4) NOT NULL REFERENCES airstrips(ident) ON DELETE CASCADE,
	aircraft_type  VARCHAR(10) NOT NULL REFERENCES aircraft_types(name) ON DELETE CASCADE,
	date           DATE NOT NULL DEFAULT CURRENT_DATE,
	UNIQUE (pilot, airstrip, aircraft_type)
);

CREATE INDEX IF NOT EXISTS idx_checkouts_airstrip_type ON checkouts(airstrip, aircraft_type);
`

// CreateSchema creates the PostgreSQL tables.
func (d *Postgres) CreateSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Snapshot reads every table inside one REPEATABLE READ, read-only
// transaction so the facts and the entities they reference agree.
func (d *Postgres) Snapshot(ctx context.Context) (*types.Snapshot, error) {
	tx, err := d.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	snap := &types.Snapshot{}

	rows, _ := tx.Query(ctx, `SELECT username, first_name, last_name FROM pilots ORDER BY username`)
	snap.Pilots, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.Pilot, error) {
		var p types.Pilot
		err := row.Scan(&p.Username, &p.FirstName, &p.LastName)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load pilots: %w", err)
	}

	rows, _ = tx.Query(ctx, `SELECT ident, name, is_base FROM airstrips ORDER BY ident`)
	snap.Airstrips, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.Airstrip, error) {
		var a types.Airstrip
		err := row.Scan(&a.Ident, &a.Name, &a.IsBase)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load airstrips: %w", err)
	}

	rows, _ = tx.Query(ctx, `SELECT airstrip, base FROM airstrip_bases ORDER BY airstrip, base`)
	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) ([2]string, error) {
		var link [2]string
		err := row.Scan(&link[0], &link[1])
		return link, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load airstrip bases: %w", err)
	}
	attachBases(snap.Airstrips, links)

	rows, _ = tx.Query(ctx, `SELECT name, sort_position FROM aircraft_types ORDER BY sort_position, name`)
	snap.AircraftTypes, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.AircraftType, error) {
		var t types.AircraftType
		err := row.Scan(&t.Name, &t.SortPosition)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load aircraft types: %w", err)
	}

	rows, _ = tx.Query(ctx, `SELECT pilot, airstrip, aircraft_type FROM checkouts ORDER BY pilot, airstrip, aircraft_type`)
	snap.Facts, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (types.CompletionFact, error) {
		var f types.CompletionFact
		err := row.Scan(&f.Pilot, &f.Airstrip, &f.AircraftType)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load checkouts: %w", err)
	}

	d.logger.Debug("snapshot loaded",
		"pilots", len(snap.Pilots),
		"airstrips", len(snap.Airstrips),
		"aircraft_types", len(snap.AircraftTypes),
		"facts", len(snap.Facts))
	return snap, nil
}

// UpsertPilot creates a pilot or updates its name.
func (d *Postgres) UpsertPilot(ctx context.Context, p types.Pilot) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid pilot: %w", err)
	}
	_, err := d.pool.Exec(ctx,
		`INSERT INTO pilots (username, first_name, last_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO UPDATE SET first_name = $2, last_name = $3`,
		p.Username, p.FirstName, p.LastName,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pilot %s: %w", p.Username, err)
	}
	return nil
}

// UpsertAirstrip creates an airstrip or updates its name and base flag.
func (d *Postgres) UpsertAirstrip(ctx context.Context, a types.Airstrip) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid airstrip: %w", err)
	}
	_, err := d.pool.Exec(ctx,
		`INSERT INTO airstrips (ident, name, is_base)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (ident) DO UPDATE SET name = $2, is_base = $3`,
		a.Ident, a.Name, a.IsBase,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert airstrip %s: %w", a.Ident, err)
	}
	return nil
}

// UpsertAircraftType creates an aircraft type or updates its sort position.
func (d *Postgres) UpsertAircraftType(ctx context.Context, t types.AircraftType) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid aircraft type: %w", err)
	}
	_, err := d.pool.Exec(ctx,
		`INSERT INTO aircraft_types (name, sort_position)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET sort_position = $2`,
		t.Name, t.SortPosition,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert aircraft type %s: %w", t.Name, err)
	}
	return nil
}

// AddCheckouts records the requested checkouts in one transaction.
func (d *Postgres) AddCheckouts(ctx context.Context, req types.CheckoutEditRequest) ([]CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checkout request: %w", err)
	}

	var results []CheckoutResult
	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if err := checkCheckoutRefs(ctx, pgExists(tx), req); err != nil {
			return err
		}

		results = make([]CheckoutResult, 0, len(req.AircraftTypes))
		for _, name := range req.AircraftTypes {
			tag, err := tx.Exec(ctx,
				`INSERT INTO checkouts (id, pilot, airstrip, aircraft_type)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (pilot, airstrip, aircraft_type) DO NOTHING`,
				uuid.New(), req.Pilot, req.Airstrip, name,
			)
			if err != nil {
				return fmt.Errorf("failed to add checkout %s: %w", name, err)
			}
			outcome := OutcomeAlreadyExists
			if tag.RowsAffected() > 0 {
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
func (d *Postgres) RemoveCheckouts(ctx context.Context, req types.CheckoutEditRequest) ([]CheckoutResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checkout request: %w", err)
	}

	var results []CheckoutResult
	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if err := checkCheckoutRefs(ctx, pgExists(tx), req); err != nil {
			return err
		}

		results = make([]CheckoutResult, 0, len(req.AircraftTypes))
		for _, name := range req.AircraftTypes {
			_, err := tx.Exec(ctx,
				`DELETE FROM checkouts WHERE pilot = $1 AND airstrip = $2 AND aircraft_type = $3`,
				req.Pilot, req.Airstrip, name,
			)
			if err != nil {
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
func (d *Postgres) AttachAirstrip(ctx context.Context, airstrip, base string) error {
	if airstrip == base {
		return fmt.Errorf("airstrip %q: %w", airstrip, ErrSelfAttachment)
	}

	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if err := pgCheckBase(ctx, tx, base); err != nil {
			return err
		}
		ok, err := pgExists(tx)(ctx, "airstrips", "ident", airstrip)
		if err != nil {
			return fmt.Errorf("failed to look up airstrip %q: %w", airstrip, err)
		}
		if !ok {
			return notFound("airstrip", airstrip)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO airstrip_bases (airstrip, base) VALUES ($1, $2)
			 ON CONFLICT (airstrip, base) DO NOTHING`,
			airstrip, base,
		)
		if err != nil {
			return fmt.Errorf("failed to attach %s to %s: %w", airstrip, base, err)
		}
		return nil
	})
}

// ImportAirstrips inserts each airstrip and attaches it to base in one transaction.
func (d *Postgres) ImportAirstrips(ctx context.Context, base string, airstrips []types.Airstrip, actor string) error {
	if err := checkImport(base, airstrips); err != nil {
		return err
	}

	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if err := pgCheckBase(ctx, tx, base); err != nil {
			return err
		}
		exists := pgExists(tx)
		for _, a := range airstrips {
			ok, err := exists(ctx, "airstrips", "ident", a.Ident)
			if err != nil {
				return fmt.Errorf("failed to look up airstrip %q: %w", a.Ident, err)
			}
			if ok {
				return fmt.Errorf("airstrip %q: %w", a.Ident, ErrAlreadyExists)
			}

			if _, err := tx.Exec(ctx,
				`INSERT INTO airstrips (ident, name, is_base) VALUES ($1, $2, FALSE)`,
				a.Ident, a.Name,
			); err != nil {
				return fmt.Errorf("failed to insert airstrip %s: %w", a.Ident, err)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO airstrip_bases (airstrip, base) VALUES ($1, $2)`,
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
func (d *Postgres) SetAttachments(ctx context.Context, req types.AttachmentRequest) (AttachmentChange, error) {
	if err := req.Validate(); err != nil {
		return AttachmentChange{}, fmt.Errorf("invalid attachment request: %w", err)
	}

	var change AttachmentChange
	err := pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if err := pgCheckBase(ctx, tx, req.Base); err != nil {
			return err
		}

		rows, _ := tx.Query(ctx, `SELECT airstrip FROM airstrip_bases WHERE base = $1`, req.Base)
		current, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return fmt.Errorf("failed to load attachments of %s: %w", req.Base, err)
		}

		change = PlanAttachments(req.Base, current, req.Airstrips)
		for _, ident := range change.Attached {
			ok, err := pgExists(tx)(ctx, "airstrips", "ident", ident)
			if err != nil {
				return fmt.Errorf("failed to look up airstrip %q: %w", ident, err)
			}
			if !ok {
				return notFound("airstrip", ident)
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO airstrip_bases (airstrip, base) VALUES ($1, $2)`,
				ident, req.Base,
			); err != nil {
				return fmt.Errorf("failed to attach %s to %s: %w", ident, req.Base, err)
			}
		}
		if len(change.Detached) > 0 {
			if _, err := tx.Exec(ctx,
				`DELETE FROM airstrip_bases WHERE base = $1 AND airstrip = ANY($2)`,
				req.Base, change.Detached,
			); err != nil {
				return fmt.Errorf("failed to detach from %s: %w", req.Base, err)
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

func pgExists(tx pgx.Tx) existsFunc {
	return func(ctx context.Context, table, column, value string) (bool, error) {
		var ok bool
		query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table, column)
		err := tx.QueryRow(ctx, query, value).Scan(&ok)
		return ok, err
	}
}

func pgCheckBase(ctx context.Context, tx pgx.Tx, ident string) error {
	var isBase bool
	err := tx.QueryRow(ctx, `SELECT is_base FROM airstrips WHERE ident = $1`, ident).Scan(&isBase)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("base", ident)
		}
		return fmt.Errorf("failed to look up base %q: %w", ident, err)
	}
	if !isBase {
		return fmt.Errorf("airstrip %q: %w", ident, ErrNotABase)
	}
	return nil
}
