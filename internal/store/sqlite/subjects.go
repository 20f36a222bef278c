package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

// subjectColumns is the ordered list of columns selected in subject queries.
// Must match the scan order in scanSubject.
const subjectColumns = `id, created_at, updated_at, scheme, identifier, name,
	genre_name, audience, target_age_lower, target_age_upper, fiction, checked`

// scanSubject scans a row into a domain.Subject.
func scanSubject(scanner interface{ Scan(dest ...any) error }) (*domain.Subject, error) {
	var sub domain.Subject

	var (
		createdAt string
		updatedAt string
		name      sql.NullString
		genreName sql.NullString
		audience  sql.NullString
		ageLower  sql.NullInt64
		ageUpper  sql.NullInt64
		fiction   sql.NullInt64
		checked   int
	)

	err := scanner.Scan(
		&sub.ID,
		&createdAt,
		&updatedAt,
		&sub.Scheme,
		&sub.Identifier,
		&name,
		&genreName,
		&audience,
		&ageLower,
		&ageUpper,
		&fiction,
		&checked,
	)
	if err != nil {
		return nil, err
	}

	sub.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sub.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
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

	return &sub, nil
}

func createSubject(ctx context.Context, q querier, sub *domain.Subject) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO subjects (
			id, created_at, updated_at, scheme, identifier, name,
			genre_name, audience, target_age_lower, target_age_upper,
			fiction, checked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		formatTime(sub.CreatedAt),
		formatTime(sub.UpdatedAt),
		string(sub.Scheme),
		sub.Identifier,
		nullString(sub.Name),
		nullString(sub.GenreName),
		nullString(string(sub.Audience)),
		nullInt(sub.TargetAge.Lower),
		nullInt(sub.TargetAge.Upper),
		nullBool(sub.Fiction),
		boolInt(sub.Checked),
	)
	return mapConstraintErr(err)
}

func getSubject(ctx context.Context, q querier, id string) (*domain.Subject, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE id = ?`, id)
	sub, err := scanSubject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return sub, err
}

func getSubjectByKey(ctx context.Context, q querier, scheme domain.Scheme, identifier string) (*domain.Subject, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE scheme = ? AND identifier = ?`,
		string(scheme), identifier)
	sub, err := scanSubject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return sub, err
}

func updateSubject(ctx context.Context, q querier, sub *domain.Subject) error {
	res, err := q.ExecContext(ctx, `
		UPDATE subjects SET
			updated_at = ?, name = ?, genre_name = ?, audience = ?,
			target_age_lower = ?, target_age_upper = ?, fiction = ?,
			checked = ?
		WHERE id = ?`,
		formatTime(sub.UpdatedAt),
		nullString(sub.Name),
		nullString(sub.GenreName),
		nullString(string(sub.Audience)),
		nullInt(sub.TargetAge.Lower),
		nullInt(sub.TargetAge.Upper),
		nullBool(sub.Fiction),
		boolInt(sub.Checked),
		sub.ID,
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

// CreateSubject inserts a subject row.
// Returns store.ErrAlreadyExists on a duplicate scheme/identifier pair.
func (s *Store) CreateSubject(ctx context.Context, sub *domain.Subject) error {
	return createSubject(ctx, s.db, sub)
}

// GetSubject retrieves a subject by ID.
func (s *Store) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	return getSubject(ctx, s.db, id)
}

// GetSubjectByKey retrieves a subject by its scheme/identifier pair.
func (s *Store) GetSubjectByKey(ctx context.Context, scheme domain.Scheme, identifier string) (*domain.Subject, error) {
	return getSubjectByKey(ctx, s.db, scheme, identifier)
}

// UpdateSubject persists a subject's cached classification decision.
func (s *Store) UpdateSubject(ctx context.Context, sub *domain.Subject) error {
	return updateSubject(ctx, s.db, sub)
}

// ListUncheckedSubjects returns up to limit subjects that have never been
// through the classification engine.
func (s *Store) ListUncheckedSubjects(ctx context.Context, limit int) ([]*domain.Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE checked = 0 ORDER BY created_at ASC LIMIT ?`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*domain.Subject
	for rows.Next() {
		sub, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, sub)
	}
	return subjects, rows.Err()
}

func (t *Tx) CreateSubject(ctx context.Context, sub *domain.Subject) error {
	return createSubject(ctx, t.tx, sub)
}

func (t *Tx) GetSubject(ctx context.Context, id string) (*domain.Subject, error) {
	return getSubject(ctx, t.tx, id)
}

func (t *Tx) GetSubjectByKey(ctx context.Context, scheme domain.Scheme, identifier string) (*domain.Subject, error) {
	return getSubjectByKey(ctx, t.tx, scheme, identifier)
}

func (t *Tx) UpdateSubject(ctx context.Context, sub *domain.Subject) error {
	return updateSubject(ctx, t.tx, sub)
}
