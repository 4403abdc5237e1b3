package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/slcassoc/theatre-booking/internal/model"
)

// PlayRepo manages rows of the 'plays' table.
type PlayRepo struct{ DB *sql.DB }

func NewPlayRepo(db *sql.DB) *PlayRepo { return &PlayRepo{DB: db} }

const playColumns = `id, title, genre, synopsis, duration_min, director_id, created_at, updated_at`

func scanPlay(row interface{ Scan(...any) error }) (model.Play, error) {
	var (
		p        model.Play
		synopsis sql.NullString
		director sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Title, &p.Genre, &synopsis, &p.DurationMin,
		&director, &p.CreatedAt, &p.UpdatedAt)
	if synopsis.Valid {
		p.Synopsis = &synopsis.String
	}
	if director.Valid {
		id := uint64(director.Int64)
		p.DirectorID = &id
	}
	return p, err
}

// Create inserts a play and populates its generated ID.
func (r *PlayRepo) Create(ctx context.Context, p *model.Play) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO plays (title, genre, synopsis, duration_min, director_id) VALUES (?,?,?,?,?)",
		p.Title, p.Genre, p.Synopsis, p.DurationMin, p.DirectorID)
	if err != nil {
		if isFKViolation(err) {
			return ErrDirectorNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a play by id.
func (r *PlayRepo) GetByID(ctx context.Context, id uint64) (model.Play, error) {
	p, err := scanPlay(r.DB.QueryRowContext(ctx,
		"SELECT "+playColumns+" FROM plays WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrPlayNotFound
	}
	return p, err
}

// List returns the full repertoire ordered by title.
func (r *PlayRepo) List(ctx context.Context) ([]model.Play, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+playColumns+" FROM plays ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	plays := make([]model.Play, 0)
	for rows.Next() {
		p, err := scanPlay(rows)
		if err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return plays, nil
}

// Update rewrites the mutable fields of a play.
func (r *PlayRepo) Update(ctx context.Context, p *model.Play) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE plays SET title=?, genre=?, synopsis=?, duration_min=?, director_id=?,
		 updated_at=UTC_TIMESTAMP() WHERE id=?`,
		p.Title, p.Genre, p.Synopsis, p.DurationMin, p.DirectorID, p.ID)
	if err != nil {
		if isFKViolation(err) {
			return ErrDirectorNotFound
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlayNotFound
	}
	return nil
}

// Delete removes a play.  Refused with ErrConflict while any showtime
// still references it; the schedule must be cleared first.
func (r *PlayRepo) Delete(ctx context.Context, id uint64) error {
	var scheduled int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM showtimes WHERE play_id=?", id).Scan(&scheduled); err != nil {
		return err
	}
	if scheduled > 0 {
		return ErrConflict
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM play_credits WHERE play_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM plays WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPlayNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
