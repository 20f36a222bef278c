package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

// editionColumns must match the scan order in scanEdition.
const editionColumns = `id, created_at, updated_at, title, subtitle, author,
	sort_author, medium, language, publisher, imprint, data_source,
	permanent_work_id`

func scanEdition(scanner interface{ Scan(dest ...any) error }) (*domain.Edition, error) {
	var e domain.Edition

	var (
		createdAt  string
		updatedAt  string
		title      sql.NullString
		subtitle   sql.NullString
		author     sql.NullString
		sortAuthor sql.NullString
		language   sql.NullString
		publisher  sql.NullString
		imprint    sql.NullString
		pwid       sql.NullString
	)

	err := scanner.Scan(
		&e.ID,
		&createdAt,
		&updatedAt,
		&title,
		&subtitle,
		&author,
		&sortAuthor,
		&e.Medium,
		&language,
		&publisher,
		&imprint,
		&e.DataSource,
		&pwid,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if title.Valid {
		e.Title = title.String
	}
	if subtitle.Valid {
		e.Subtitle = subtitle.String
	}
	if author.Valid {
		e.Author = author.String
	}
	if sortAuthor.Valid {
		e.SortAuthor = sortAuthor.String
	}
	if language.Valid {
		e.Language = language.String
	}
	if publisher.Valid {
		e.Publisher = publisher.String
	}
	if imprint.Valid {
		e.Imprint = imprint.String
	}
	if pwid.Valid {
		e.PermanentWorkID = pwid.String
	}

	return &e, nil
}

func createEdition(ctx context.Context, q querier, e *domain.Edition) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO editions (
			id, created_at, updated_at, title, subtitle, author,
			sort_author, medium, language, publisher, imprint,
			data_source, permanent_work_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
		nullString(e.Title),
		nullString(e.Subtitle),
		nullString(e.Author),
		nullString(e.SortAuthor),
		string(e.Medium),
		nullString(e.Language),
		nullString(e.Publisher),
		nullString(e.Imprint),
		e.DataSource,
		nullString(e.PermanentWorkID),
	)
	return mapConstraintErr(err)
}

func getEdition(ctx context.Context, q querier, id string) (*domain.Edition, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+editionColumns+` FROM editions WHERE id = ?`, id)
	e, err := scanEdition(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return e, err
}

func updateEdition(ctx context.Context, q querier, e *domain.Edition) error {
	res, err := q.ExecContext(ctx, `
		UPDATE editions SET
			updated_at = ?, title = ?, subtitle = ?, author = ?,
			sort_author = ?, medium = ?, language = ?, publisher = ?,
			imprint = ?, permanent_work_id = ?
		WHERE id = ?`,
		formatTime(e.UpdatedAt),
		nullString(e.Title),
		nullString(e.Subtitle),
		nullString(e.Author),
		nullString(e.SortAuthor),
		string(e.Medium),
		nullString(e.Language),
		nullString(e.Publisher),
		nullString(e.Imprint),
		nullString(e.PermanentWorkID),
		e.ID,
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

// CreateEdition inserts an edition row.
func (s *Store) CreateEdition(ctx context.Context, e *domain.Edition) error {
	return createEdition(ctx, s.db, e)
}

// GetEdition retrieves an edition by ID.
func (s *Store) GetEdition(ctx context.Context, id string) (*domain.Edition, error) {
	return getEdition(ctx, s.db, id)
}

// UpdateEdition persists changed bibliographic fields, including a
// recomputed permanent work ID.
func (s *Store) UpdateEdition(ctx context.Context, e *domain.Edition) error {
	return updateEdition(ctx, s.db, e)
}

func (t *Tx) CreateEdition(ctx context.Context, e *domain.Edition) error {
	return createEdition(ctx, t.tx, e)
}

func (t *Tx) GetEdition(ctx context.Context, id string) (*domain.Edition, error) {
	return getEdition(ctx, t.tx, id)
}

func (t *Tx) UpdateEdition(ctx context.Context, e *domain.Edition) error {
	return updateEdition(ctx, t.tx, e)
}
