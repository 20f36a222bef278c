package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

// poolColumns must match the scan order in scanPool.
const poolColumns = `id, created_at, updated_at, data_source, identifier,
	open_access, suppressed, licenses_owned, has_deliverable, superceded,
	work_id, presentation_edition_id`

func scanPool(scanner interface{ Scan(dest ...any) error }) (*domain.LicensePool, error) {
	var p domain.LicensePool

	var (
		createdAt  string
		updatedAt  string
		openAccess int
		suppressed int
		deliver    int
		superceded int
		workID     sql.NullString
		editionID  sql.NullString
	)

	err := scanner.Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
		&p.DataSource,
		&p.Identifier,
		&openAccess,
		&suppressed,
		&p.LicensesOwned,
		&deliver,
		&superceded,
		&workID,
		&editionID,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	p.OpenAccess = openAccess != 0
	p.Suppressed = suppressed != 0
	p.HasDeliverable = deliver != 0
	p.Superceded = superceded != 0
	if workID.Valid {
		p.WorkID = workID.String
	}
	if editionID.Valid {
		p.PresentationEditionID = editionID.String
	}

	return &p, nil
}

func createPool(ctx context.Context, q querier, p *domain.LicensePool) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO license_pools (
			id, created_at, updated_at, data_source, identifier,
			open_access, suppressed, licenses_owned, has_deliverable,
			superceded, work_id, presentation_edition_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		p.DataSource,
		p.Identifier,
		boolInt(p.OpenAccess),
		boolInt(p.Suppressed),
		p.LicensesOwned,
		boolInt(p.HasDeliverable),
		boolInt(p.Superceded),
		nullString(p.WorkID),
		nullString(p.PresentationEditionID),
	)
	return mapConstraintErr(err)
}

func getPool(ctx context.Context, q querier, id string) (*domain.LicensePool, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+poolColumns+` FROM license_pools WHERE id = ?`, id)
	p, err := scanPool(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return p, err
}

func updatePool(ctx context.Context, q querier, p *domain.LicensePool) error {
	res, err := q.ExecContext(ctx, `
		UPDATE license_pools SET
			updated_at = ?, open_access = ?, suppressed = ?,
			licenses_owned = ?, has_deliverable = ?, superceded = ?,
			work_id = ?, presentation_edition_id = ?
		WHERE id = ?`,
		formatTime(p.UpdatedAt),
		boolInt(p.OpenAccess),
		boolInt(p.Suppressed),
		p.LicensesOwned,
		boolInt(p.HasDeliverable),
		boolInt(p.Superceded),
		nullString(p.WorkID),
		nullString(p.PresentationEditionID),
		p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func scanPools(rows *sql.Rows) ([]*domain.LicensePool, error) {
	defer rows.Close()

	var pools []*domain.LicensePool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, err
		}
		pools = append(pools, p)
	}
	return pools, rows.Err()
}

func listPoolsForWork(ctx context.Context, q querier, workID string) ([]*domain.LicensePool, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+poolColumns+` FROM license_pools WHERE work_id = ? ORDER BY created_at ASC`,
		workID)
	if err != nil {
		return nil, err
	}
	return scanPools(rows)
}

func listEligibleOpenAccessPools(ctx context.Context, q querier, pwid string, medium domain.Medium, language string) ([]*domain.LicensePool, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT lp.id, lp.created_at, lp.updated_at, lp.data_source,
			lp.identifier, lp.open_access, lp.suppressed,
			lp.licenses_owned, lp.has_deliverable, lp.superceded,
			lp.work_id, lp.presentation_edition_id
		FROM license_pools lp
		JOIN editions e ON e.id = lp.presentation_edition_id
		WHERE lp.open_access = 1
			AND lp.suppressed = 0
			AND e.permanent_work_id = ?
			AND e.medium = ?
			AND COALESCE(e.language, '') = ?
		ORDER BY lp.created_at ASC`,
		pwid, string(medium), language)
	if err != nil {
		return nil, err
	}
	return scanPools(rows)
}

// CreatePool inserts a license pool row.
// Returns store.ErrAlreadyExists on a duplicate data source/identifier pair.
func (s *Store) CreatePool(ctx context.Context, p *domain.LicensePool) error {
	return createPool(ctx, s.db, p)
}

// GetPool retrieves a license pool by ID.
func (s *Store) GetPool(ctx context.Context, id string) (*domain.LicensePool, error) {
	return getPool(ctx, s.db, id)
}

// UpdatePool persists a pool's mutable state: flags, work assignment and
// presentation edition.
func (s *Store) UpdatePool(ctx context.Context, p *domain.LicensePool) error {
	return updatePool(ctx, s.db, p)
}

// ListPoolsForWork returns every pool assigned to a work, oldest first.
func (s *Store) ListPoolsForWork(ctx context.Context, workID string) ([]*domain.LicensePool, error) {
	return listPoolsForWork(ctx, s.db, workID)
}

// ListEligibleOpenAccessPools returns the unsuppressed open-access pools
// whose presentation edition carries the given identity key.
func (s *Store) ListEligibleOpenAccessPools(ctx context.Context, pwid string, medium domain.Medium, language string) ([]*domain.LicensePool, error) {
	return listEligibleOpenAccessPools(ctx, s.db, pwid, medium, language)
}

// ListPoolsWithoutWork returns up to limit pools that have no work
// assignment, for the batch resolution pass.
func (s *Store) ListPoolsWithoutWork(ctx context.Context, limit int) ([]*domain.LicensePool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+poolColumns+` FROM license_pools WHERE work_id IS NULL ORDER BY created_at ASC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	return scanPools(rows)
}

func (t *Tx) CreatePool(ctx context.Context, p *domain.LicensePool) error {
	return createPool(ctx, t.tx, p)
}

func (t *Tx) GetPool(ctx context.Context, id string) (*domain.LicensePool, error) {
	return getPool(ctx, t.tx, id)
}

func (t *Tx) UpdatePool(ctx context.Context, p *domain.LicensePool) error {
	return updatePool(ctx, t.tx, p)
}

func (t *Tx) ListPoolsForWork(ctx context.Context, workID string) ([]*domain.LicensePool, error) {
	return listPoolsForWork(ctx, t.tx, workID)
}

func (t *Tx) ListEligibleOpenAccessPools(ctx context.Context, pwid string, medium domain.Medium, language string) ([]*domain.LicensePool, error) {
	return listEligibleOpenAccessPools(ctx, t.tx, pwid, medium, language)
}
