package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/delve/internal/game/encounter"
)

// ErrReportNotFound is returned when a report lookup yields no results.
var ErrReportNotFound = errors.New("report not found")

// Report is one archived encounter result.
type Report struct {
	ID          uuid.UUID
	EncounterID string
	Summary     encounter.Summary
	CreatedAt   time.Time
}

// NewReport wraps summary in a report with a fresh id.
func NewReport(encounterID string, summary encounter.Summary) Report {
	return Report{ID: uuid.New(), EncounterID: encounterID, Summary: summary}
}

// Validate checks the report before it is written.
func (r Report) Validate() error {
	var errs []error
	if r.ID == uuid.Nil {
		errs = append(errs, errors.New("id must be set"))
	}
	if r.EncounterID == "" {
		errs = append(errs, errors.New("encounter id must not be empty"))
	}
	switch r.Summary.Outcome {
	case encounter.OutcomeVictory, encounter.OutcomeDefeat, encounter.OutcomeTimeout, encounter.OutcomeAborted:
	default:
		errs = append(errs, fmt.Errorf("outcome %q is unknown", r.Summary.Outcome))
	}
	if len(errs) > 0 {
		return fmt.Errorf("report: %w", errors.Join(errs...))
	}
	return nil
}

// ReportRepository persists encounter reports.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a ReportRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save inserts r. The summary is stored as JSONB next to the columns reports
// are queried by.
//
// Postcondition: Returns r with CreatedAt set, or an error.
func (r *ReportRepository) Save(ctx context.Context, rep Report) (Report, error) {
	if err := rep.Validate(); err != nil {
		return Report{}, err
	}
	s := rep.Summary
	err := r.db.QueryRow(ctx,
		`INSERT INTO encounter_reports
		   (id, encounter_id, outcome, seed, ticks, seconds, packs_cleared, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		rep.ID, rep.EncounterID, string(s.Outcome), int64(s.Seed), s.Ticks, s.Seconds, s.PacksCleared, s,
	).Scan(&rep.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return Report{}, fmt.Errorf("report %s already archived", rep.ID)
		}
		return Report{}, fmt.Errorf("inserting report: %w", err)
	}
	return rep, nil
}

// Get retrieves the report with id.
//
// Postcondition: Returns the Report or ErrReportNotFound.
func (r *ReportRepository) Get(ctx context.Context, id uuid.UUID) (Report, error) {
	rep, err := scanReport(r.db.QueryRow(ctx,
		`SELECT id, encounter_id, summary, created_at
		 FROM encounter_reports WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Report{}, ErrReportNotFound
		}
		return Report{}, fmt.Errorf("querying report: %w", err)
	}
	return rep, nil
}

// ListRecent returns up to limit reports for encounterID, newest first.
// An empty encounterID lists every encounter.
func (r *ReportRepository) ListRecent(ctx context.Context, encounterID string, limit int) ([]Report, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", limit)
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, encounter_id, summary, created_at
		 FROM encounter_reports
		 WHERE $1 = '' OR encounter_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		encounterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// OutcomeCounts tallies archived outcomes for encounterID.
func (r *ReportRepository) OutcomeCounts(ctx context.Context, encounterID string) (map[encounter.Outcome]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT outcome, COUNT(*) FROM encounter_reports
		 WHERE encounter_id = $1 GROUP BY outcome`,
		encounterID,
	)
	if err != nil {
		return nil, fmt.Errorf("counting outcomes: %w", err)
	}
	defer rows.Close()

	out := map[encounter.Outcome]int{}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scanning outcome count: %w", err)
		}
		out[encounter.Outcome(outcome)] = n
	}
	return out, rows.Err()
}

func scanReport(row pgx.Row) (Report, error) {
	var rep Report
	err := row.Scan(&rep.ID, &rep.EncounterID, &rep.Summary, &rep.CreatedAt)
	return rep, err
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
