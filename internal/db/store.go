// Package db persists pilots, airstrips, aircraft types and completed
// checkouts, and loads them back as consistent snapshots.
package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jonathan/checkniner/internal/types"
)

var (
	// ErrNotFound indicates a referenced pilot, airstrip or aircraft type does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotABase indicates an attachment target that is not flagged as a base.
	ErrNotABase = errors.New("airstrip is not a base")
	// ErrSelfAttachment indicates an attempt to attach a base to itself.
	ErrSelfAttachment = errors.New("airstrip cannot be attached to itself")
	// ErrAlreadyExists indicates an import of an airstrip ident that is already stored.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNoDatabase indicates an empty database URL.
	ErrNoDatabase = errors.New("no database URL configured")
)

// Outcome values reported per aircraft type by checkout edits.
const (
	OutcomeAdded         = "added"
	OutcomeAlreadyExists = "already_exists"
	OutcomeDeleted       = "deleted"
)

// CheckoutResult reports what happened to one aircraft type of a checkout edit.
type CheckoutResult struct {
	AircraftType string `json:"aircraft_type"`
	Outcome      string `json:"outcome"`
}

// Store is the persistence boundary of the completion engine. Implementations
// must be safe for concurrent use.
type Store interface {
	// CreateSchema creates any missing tables.
	CreateSchema(ctx context.Context) error
	// Snapshot reads every entity and fact in one consistent transaction.
	Snapshot(ctx context.Context) (*types.Snapshot, error)

	UpsertPilot(ctx context.Context, p types.Pilot) error
	// UpsertAirstrip stores the airstrip row only; its Bases are attached separately.
	UpsertAirstrip(ctx context.Context, a types.Airstrip) error
	UpsertAircraftType(ctx context.Context, t types.AircraftType) error

	// AddCheckouts records each aircraft type of the request. Existing
	// checkouts are reported as already_exists and left untouched.
	AddCheckouts(ctx context.Context, req types.CheckoutEditRequest) ([]CheckoutResult, error)
	// RemoveCheckouts deletes each aircraft type of the request. Every type is
	// reported as deleted whether or not a checkout existed.
	RemoveCheckouts(ctx context.Context, req types.CheckoutEditRequest) ([]CheckoutResult, error)

	// AttachAirstrip adds base to the bases of an airstrip.
	AttachAirstrip(ctx context.Context, airstrip, base string) error
	// ImportAirstrips creates new non-base airstrips attached to base in one
	// transaction. An ident that already exists fails the whole import.
	ImportAirstrips(ctx context.Context, base string, airstrips []types.Airstrip, actor string) error
	// SetAttachments replaces the set of airstrips attached to a base.
	SetAttachments(ctx context.Context, req types.AttachmentRequest) (AttachmentChange, error)

	Close() error
}

// Open connects to the store named by databaseURL. postgres:// and
// postgresql:// URLs select PostgreSQL; sqlite:// URLs, file: DSNs and bare
// paths select SQLite.
func Open(ctx context.Context, databaseURL string, logger *slog.Logger) (Store, error) {
	logger = orDiscard(logger)
	logger = logger.With("component", "db")

	switch backend, dsn := parseURL(databaseURL); backend {
	case "":
		return nil, ErrNoDatabase
	case "postgres":
		return OpenPostgres(ctx, dsn, logger)
	default:
		return OpenSQLite(ctx, dsn, logger)
	}
}

// parseURL returns the backend name and the DSN to hand to its driver.
func parseURL(databaseURL string) (backend, dsn string) {
	u := strings.TrimSpace(databaseURL)
	switch {
	case u == "":
		return "", ""
	case strings.HasPrefix(u, "postgres://"), strings.HasPrefix(u, "postgresql://"):
		return "postgres", u
	case strings.HasPrefix(u, "sqlite://"):
		return "sqlite", strings.TrimPrefix(u, "sqlite://")
	default:
		return "sqlite", u
	}
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}

// existsFunc reports whether a row with column = value exists in table.
type existsFunc func(ctx context.Context, table, column, value string) (bool, error)

// checkCheckoutRefs confirms the pilot, airstrip and every aircraft type of
// req exist, returning ErrNotFound for the first that does not.
func checkCheckoutRefs(ctx context.Context, exists existsFunc, req types.CheckoutEditRequest) error {
	type ref struct{ kind, table, column, value string }
	refs := []ref{
		{"pilot", "pilots", "username", req.Pilot},
		{"airstrip", "airstrips", "ident", req.Airstrip},
	}
	for _, name := range req.AircraftTypes {
		refs = append(refs, ref{"aircraft type", "aircraft_types", "name", name})
	}

	for _, r := range refs {
		ok, err := exists(ctx, r.table, r.column, r.value)
		if err != nil {
			return fmt.Errorf("failed to look up %s %q: %w", r.kind, r.value, err)
		}
		if !ok {
			return notFound(r.kind, r.value)
		}
	}
	return nil
}

// checkImport rejects airstrips that are invalid or would attach base to itself.
func checkImport(base string, airstrips []types.Airstrip) error {
	for _, a := range airstrips {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid airstrip: %w", err)
		}
		if a.Ident == base {
			return fmt.Errorf("airstrip %q: %w", a.Ident, ErrSelfAttachment)
		}
	}
	return nil
}

// attachBases fills Airstrip.Bases from (airstrip, base) link rows.
func attachBases(airstrips []types.Airstrip, links [][2]string) {
	pos := make(map[string]int, len(airstrips))
	for i, a := range airstrips {
		pos[a.Ident] = i
	}
	for _, link := range links {
		if i, ok := pos[link[0]]; ok {
			airstrips[i].Bases = append(airstrips[i].Bases, link[1])
		}
	}
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
