package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

// workColumns must match the scan order in scanWork.
const workColumns = `id, created_at, updated_at, permanent_work_id, title,
	author, medium, language, audience, fiction, target_age_lower,
	target_age_upper, open_access, presentation_ready`

func scanWork(scanner interface{ Scan(dest ...any) error }) (*domain.Work, error) {
	var w domain.Work

	var (
		createdAt  string
		updatedAt  string
		pwid       sql.NullString
		title      sql.NullString
		author     sql.NullString
		medium     sql.NullString
		language   sql.NullString
		audience   sql.NullString
		fiction    sql.NullInt64
		ageLower   sql.NullInt64
		ageUpper   sql.NullInt64
		openAccess int
		ready      int
	)

	err := scanner.Scan(
		&w.ID,
		&createdAt,
		&updatedAt,
		&pwid,
		&title,
		&author,
		&medium,
		&language,
		&audience,
		&fiction,
		&ageLower,
		&ageUpper,
		&openAccess,
		&ready,
	)
	if err != nil {
		return nil, err
	}

	w.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	w.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if pwid.Valid {
		w.PermanentWorkID = pwid.String
	}
	if title.Valid {
		w.Title = title.String
	}
	if author.Valid {
		w.Author = author.String
	}
	if medium.Valid {
		w.Medium = domain.Medium(medium.String)
	}
	if language.Valid {
		w.Language = language.String
	}
	if audience.Valid {
		w.Audience = domain.Audience(audience.String)
	}
	w.Fiction = boolPtr(fiction)
	w.TargetAge = domain.AgeRange{Lower: intPtr(ageLower), Upper: intPtr(ageUpper)}
	w.OpenAccess = openAccess != 0
	w.PresentationReady = ready != 0

	return &w, nil
}

func createWork(ctx context.Context, q querier, w *domain.Work) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO works (
			id, created_at, updated_at, permanent_work_id, title,
			author, medium, language, audience, fiction,
			target_age_lower, target_age_upper, open_access,
			presentation_ready
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID,
		formatTime(w.CreatedAt),
		formatTime(w.UpdatedAt),
		nullString(w.PermanentWorkID),
		nullString(w.Title),
		nullString(w.Author),
		nullString(string(w.Medium)),
		nullString(w.Language),
		nullString(string(w.Audience)),
		nullBool(w.Fiction),
		nullInt(w.TargetAge.Lower),
		nullInt(w.TargetAge.Upper),
		boolInt(w.OpenAccess),
		boolInt(w.PresentationReady),
	)
	return mapConstraintErr(err)
}

func getWork(ctx context.Context, q querier, id string) (*domain.Work, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+workColumns+` FROM works WHERE id = ?`, id)
	w, err := scanWork(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return w, err
}

func updateWork(ctx context.Context, q querier, w *domain.Work) error {
	res, err := q.ExecContext(ctx, `
		UPDATE works SET
			updated_at = ?, permanent_work_id = ?, title = ?, author = ?,
			medium = ?, language = ?, audience = ?, fiction = ?,
			target_age_lower = ?, target_age_upper = ?, open_access = ?,
			presentation_ready = ?
		WHERE id = ?`,
		formatTime(w.UpdatedAt),
		nullString(w.PermanentWorkID),
		nullString(w.Title),
		nullString(w.Author),
		nullString(string(w.Medium)),
		nullString(w.Language),
		nullString(string(w.Audience)),
		nullBool(w.Fiction),
		nullInt(w.TargetAge.Lower),
		nullInt(w.TargetAge.Upper),
		boolInt(w.OpenAccess),
		boolInt(w.PresentationReady),
		w.ID,
	)
	if err != nil {
		return mapConstraintErr(err)
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

func deleteWork(ctx context.Context, q querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM works WHERE id = ?`, id)
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

func findOpenAccessWork(ctx context.Context, q querier, pwid string, medium domain.Medium, language string) (*domain.Work, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+workColumns+` FROM works
		WHERE open_access = 1
			AND permanent_work_id = ?
			AND medium = ?
			AND COALESCE(language, '') = ?`,
		pwid, string(medium), language)
	w, err := scanWork(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return w, err
}

// setWorkGenres replaces a work's genre affinities wholesale. Affinities
// are only meaningful as a complete set, so partial updates are not offered.
func setWorkGenres(ctx context.Context, q querier, workID string, genres []domain.WorkGenre) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM work_genres WHERE work_id = ?`, workID); err != nil {
		return err
	}
	for _, wg := range genres {
		_, err := q.ExecContext(ctx, `
			INSERT INTO work_genres (work_id, genre_name, affinity)
			VALUES (?, ?, ?)`,
			workID, wg.GenreName, wg.Affinity)
		if err != nil {
			return mapConstraintErr(err)
		}
	}
	return nil
}

func listWorkGenres(ctx context.Context, q querier, workID string) ([]domain.WorkGenre, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT work_id, genre_name, affinity
		FROM work_genres
		WHERE work_id = ?
		ORDER BY affinity DESC, genre_name ASC`, workID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []domain.WorkGenre
	for rows.Next() {
		var wg domain.WorkGenre
		if err := rows.Scan(&wg.WorkID, &wg.GenreName, &wg.Affinity); err != nil {
			return nil, err
		}
		genres = append(genres, wg)
	}
	return genres, rows.Err()
}

// CreateWork inserts a work row. For an open-access work, returns
// store.ErrAlreadyExists when another open-access work already holds the
// same identity key.
func (s *Store) CreateWork(ctx context.Context, w *domain.Work) error {
	return createWork(ctx, s.db, w)
}

// GetWork retrieves a work by ID.
func (s *Store) GetWork(ctx context.Context, id string) (*domain.Work, error) {
	return getWork(ctx, s.db, id)
}

// UpdateWork persists a work's presentation and classification fields.
func (s *Store) UpdateWork(ctx context.Context, w *domain.Work) error {
	return updateWork(ctx, s.db, w)
}

// DeleteWork removes a work row. Genre affinities cascade; pools pointing
// at the work have their assignment nulled.
func (s *Store) DeleteWork(ctx context.Context, id string) error {
	return deleteWork(ctx, s.db, id)
}

// FindOpenAccessWork returns the open-access work holding the given
// identity key, or store.ErrNotFound.
func (s *Store) FindOpenAccessWork(ctx context.Context, pwid string, medium domain.Medium, language string) (*domain.Work, error) {
	return findOpenAccessWork(ctx, s.db, pwid, medium, language)
}

// SetWorkGenres replaces a work's genre affinities.
func (s *Store) SetWorkGenres(ctx context.Context, workID string, genres []domain.WorkGenre) error {
	return setWorkGenres(ctx, s.db, workID, genres)
}

// ListWorkGenres returns a work's genre affinities, strongest first.
func (s *Store) ListWorkGenres(ctx context.Context, workID string) ([]domain.WorkGenre, error) {
	return listWorkGenres(ctx, s.db, workID)
}

// ListWorkIDs returns the IDs of all works, for full reclassification and
// reindex passes.
func (s *Store) ListWorkIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM works ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (t *Tx) CreateWork(ctx context.Context, w *domain.Work) error {
	return createWork(ctx, t.tx, w)
}

func (t *Tx) GetWork(ctx context.Context, id string) (*domain.Work, error) {
	return getWork(ctx, t.tx, id)
}

func (t *Tx) UpdateWork(ctx context.Context, w *domain.Work) error {
	return updateWork(ctx, t.tx, w)
}

func (t *Tx) DeleteWork(ctx context.Context, id string) error {
	return deleteWork(ctx, t.tx, id)
}

func (t *Tx) FindOpenAccessWork(ctx context.Context, pwid string, medium domain.Medium, language string) (*domain.Work, error) {
	return findOpenAccessWork(ctx, t.tx, pwid, medium, language)
}

func (t *Tx) SetWorkGenres(ctx context.Context, workID string, genres []domain.WorkGenre) error {
	return setWorkGenres(ctx, t.tx, workID, genres)
}

func (t *Tx) ListWorkGenres(ctx context.Context, workID string) ([]domain.WorkGenre, error) {
	return listWorkGenres(ctx, t.tx, workID)
}
