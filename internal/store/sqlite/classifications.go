package sqlite

import (
	"context"
	"database/sql"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

func createClassification(ctx context.Context, q querier, c *domain.Classification) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO classifications (
			id, created_at, updated_at, subject_id, edition_id,
			data_source, weight
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
		c.SubjectID,
		c.EditionID,
		c.DataSource,
		c.Weight,
	)
	return mapConstraintErr(err)
}

func listClassificationsForEdition(ctx context.Context, q querier, editionID string) ([]*domain.Classification, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, created_at, updated_at, subject_id, edition_id, data_source, weight
		FROM classifications
		WHERE edition_id = ?
		ORDER BY created_at ASC`, editionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classifications []*domain.Classification
	for rows.Next() {
		var c domain.Classification
		var createdAt, updatedAt string
		err := rows.Scan(&c.ID, &createdAt, &updatedAt, &c.SubjectID, &c.EditionID, &c.DataSource, &c.Weight)
		if err != nil {
			return nil, err
		}
		if c.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		classifications = append(classifications, &c)
	}
	return classifications, rows.Err()
}

// listClassificationsForWork gathers every classification vote reachable
// from a work's pools, joined with its subject. A vote counts as coming
// from the license source when its data source matches the pool's.
func listClassificationsForWork(ctx context.Context, q querier, workID string) ([]store.WorkClassification, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.id, s.created_at, s.updated_at, s.scheme, s.identifier, s.name,
			s.genre_name, s.audience, s.target_age_lower, s.target_age_upper,
			s.fiction, s.checked,
			c.weight, c.data_source,
			CASE WHEN c.data_source = lp.data_source THEN 1 ELSE 0 END
		FROM license_pools lp
		JOIN classifications c ON c.edition_id = lp.presentation_edition_id
		JOIN subjects s ON s.id = c.subject_id
		WHERE lp.work_id = ?
		ORDER BY c.created_at ASC`, workID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var votes []store.WorkClassification
	for rows.Next() {
		var (
			wc         store.WorkClassification
			createdAt  string
			updatedAt  string
			name       sql.NullString
			genreName  sql.NullString
			audience   sql.NullString
			ageLower   sql.NullInt64
			ageUpper   sql.NullInt64
			fiction    sql.NullInt64
			checked    int
			fromSource int
		)

		sub := &wc.Subject
		err := rows.Scan(
			&sub.ID, &createdAt, &updatedAt, &sub.Scheme, &sub.Identifier,
			&name, &genreName, &audience, &ageLower, &ageUpper, &fiction,
			&checked,
			&wc.Weight, &wc.DataSource, &fromSource,
		)
		if err != nil {
			return nil, err
		}

		if sub.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if sub.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		if name.Valid {
			sub.Name = name.String
		}
		if genreName.Valid {
			sub.GenreName = genreName.String
		}
		if audience.Valid {
			sub.Audience = domain.Audience(audience.String)
		}
		sub.TargetAge = domain.AgeRange{Lower: intPtr(ageLower), Upper: intPtr(ageUpper)}
		sub.Fiction = boolPtr(fiction)
		sub.Checked = checked != 0
		wc.FromLicenseSource = fromSource != 0

		votes = append(votes, wc)
	}
	return votes, rows.Err()
}

// CreateClassification records one data source's application of a subject
// to an edition.
func (s *Store) CreateClassification(ctx context.Context, c *domain.Classification) error {
	return createClassification(ctx, s.db, c)
}

// ListClassificationsForEdition returns the classifications applied to an
// edition's primary identifier, oldest first.
func (s *Store) ListClassificationsForEdition(ctx context.Context, editionID string) ([]*domain.Classification, error) {
	return listClassificationsForEdition(ctx, s.db, editionID)
}

// ListClassificationsForWork returns every classification vote for a work,
// across all of its pools' presentation editions.
func (s *Store) ListClassificationsForWork(ctx context.Context, workID string) ([]store.WorkClassification, error) {
	return listClassificationsForWork(ctx, s.db, workID)
}

func (t *Tx) CreateClassification(ctx context.Context, c *domain.Classification) error {
	return createClassification(ctx, t.tx, c)
}

func (t *Tx) ListClassificationsForEdition(ctx context.Context, editionID string) ([]*domain.Classification, error) {
	return listClassificationsForEdition(ctx, t.tx, editionID)
}

func (t *Tx) ListClassificationsForWork(ctx context.Context, workID string) ([]store.WorkClassification, error) {
	return listClassificationsForWork(ctx, t.tx, workID)
}
