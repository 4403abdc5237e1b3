package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/slcassoc/theatre-booking/internal/model"
)

// PeopleRepo manages directors, actors and the play credits that link
// actors to productions.  The three tables share one repo because the
// admin panel always edits them together.
type PeopleRepo struct{ DB *sql.DB }

func NewPeopleRepo(db *sql.DB) *PeopleRepo { return &PeopleRepo{DB: db} }

const personColumns = `id, full_name, bio, nationality, created_at, updated_at`

// person is the shared row shape of the directors and actors tables.
type person struct {
	ID          uint64
	FullName    string
	Bio         *string
	Nationality *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func scanPerson(row interface{ Scan(...any) error }) (person, error) {
	var (
		p           person
		bio         sql.NullString
		nationality sql.NullString
	)
	err := row.Scan(&p.ID, &p.FullName, &bio, &nationality, &p.CreatedAt, &p.UpdatedAt)
	if bio.Valid {
		p.Bio = &bio.String
	}
	if nationality.Valid {
		p.Nationality = &nationality.String
	}
	return p, err
}

// CreateDirector inserts a director and populates its generated ID.
func (r *PeopleRepo) CreateDirector(ctx context.Context, d *model.Director) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO directors (full_name, bio, nationality) VALUES (?,?,?)",
		d.FullName, d.Bio, d.Nationality)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetDirector fetches a director by id.
func (r *PeopleRepo) GetDirector(ctx context.Context, id uint64) (model.Director, error) {
	p, err := scanPerson(r.DB.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM directors WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Director{}, ErrDirectorNotFound
	}
	if err != nil {
		return model.Director{}, err
	}
	return model.Director(p), nil
}

// ListDirectors returns all directors ordered by name.
func (r *PeopleRepo) ListDirectors(ctx context.Context) ([]model.Director, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+personColumns+" FROM directors ORDER BY full_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Director, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Director(p))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateDirector rewrites a director's fields.
func (r *PeopleRepo) UpdateDirector(ctx context.Context, d *model.Director) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE directors SET full_name=?, bio=?, nationality=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		d.FullName, d.Bio, d.Nationality, d.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrDirectorNotFound)
}

// DeleteDirector removes a director.  Plays that credit them keep their
// rows; the plays.director_id column is nulled first.
func (r *PeopleRepo) DeleteDirector(ctx context.Context, id uint64) error {
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

	if _, err := tx.ExecContext(ctx,
		"UPDATE plays SET director_id=NULL WHERE director_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM directors WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrDirectorNotFound); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CreateActor inserts an actor and populates its generated ID.
func (r *PeopleRepo) CreateActor(ctx context.Context, a *model.Actor) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO actors (full_name, bio, nationality) VALUES (?,?,?)",
		a.FullName, a.Bio, a.Nationality)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetActor fetches an actor by id.
func (r *PeopleRepo) GetActor(ctx context.Context, id uint64) (model.Actor, error) {
	p, err := scanPerson(r.DB.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM actors WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Actor{}, ErrActorNotFound
	}
	if err != nil {
		return model.Actor{}, err
	}
	return model.Actor(p), nil
}

// ListActors returns all actors ordered by name.
func (r *PeopleRepo) ListActors(ctx context.Context) ([]model.Actor, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+personColumns+" FROM actors ORDER BY full_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Actor, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Actor(p))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateActor rewrites an actor's fields.
func (r *PeopleRepo) UpdateActor(ctx context.Context, a *model.Actor) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE actors SET full_name=?, bio=?, nationality=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		a.FullName, a.Bio, a.Nationality, a.ID)
	if err != nil {
		return err
	}
	return requireRow(res, ErrActorNotFound)
}

// DeleteActor removes an actor together with their play credits.
func (r *PeopleRepo) DeleteActor(ctx context.Context, id uint64) error {
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

	if _, err := tx.ExecContext(ctx, "DELETE FROM play_credits WHERE actor_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM actors WHERE id=?", id)
	if err != nil {
		return err
	}
	if err := requireRow(res, ErrActorNotFound); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// SetCredit records or updates the role an actor performs in a play.
func (r *PeopleRepo) SetCredit(ctx context.Context, c model.PlayCredit) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO play_credits (actor_id, play_id, role_name) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE role_name=VALUES(role_name)`,
		c.ActorID, c.PlayID, c.RoleName)
	if err != nil && isFKViolation(err) {
		return ErrActorNotFound
	}
	return err
}

// RemoveCredit deletes an actor's credit in a play.  Removing an absent
// credit is not an error.
func (r *PeopleRepo) RemoveCredit(ctx context.Context, actorID, playID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM play_credits WHERE actor_id=? AND play_id=?", actorID, playID)
	return err
}

// ListCredits returns the cast of a play.
func (r *PeopleRepo) ListCredits(ctx context.Context, playID uint64) ([]model.PlayCredit, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT actor_id, play_id, role_name FROM play_credits WHERE play_id=? ORDER BY role_name",
		playID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PlayCredit, 0)
	for rows.Next() {
		var c model.PlayCredit
		if err := rows.Scan(&c.ActorID, &c.PlayID, &c.RoleName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func requireRow(res sql.Result, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
