package repository

import (
	"context"
	"database/sql"

	"github.com/avdonin/record-store/internal/model"
)

// EnsembleRepo provides CRUD access to the ensembles table.
type EnsembleRepo struct{ db *sql.DB }

func NewEnsembleRepo(db *sql.DB) *EnsembleRepo { return &EnsembleRepo{db: db} }

// Create inserts an ensemble and returns its id.
func (r *EnsembleRepo) Create(ctx context.Context, e *model.Ensemble) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO ensembles (name, type, founded_year, country, description) VALUES (?,?,?,?,?)",
		e.Name, e.Type, e.FoundedYear, e.Country, e.Description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites an ensemble. A missing id surfaces as
// ErrEnsembleNotFound instead of succeeding silently.
func (r *EnsembleRepo) Update(ctx context.Context, e *model.Ensemble) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE ensembles SET name=?, type=?, founded_year=?, country=?, description=? WHERE id=?",
		e.Name, e.Type, e.FoundedYear, e.Country, e.Description, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM ensembles WHERE id=?)", e.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrEnsembleNotFound
		}
	}
	return nil
}

// Delete removes an ensemble. A missing id surfaces as
// ErrEnsembleNotFound.
func (r *EnsembleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM ensembles WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEnsembleNotFound
	}
	return nil
}

// GetByID fetches one ensemble.
func (r *EnsembleRepo) GetByID(ctx context.Context, id uint64) (model.Ensemble, error) {
	var e model.Ensemble
	var founded sql.NullInt64
	var country, description sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, type, founded_year, country, description FROM ensembles WHERE id=? LIMIT 1",
		id).Scan(&e.ID, &e.Name, &e.Type, &founded, &country, &description)
	if err == sql.ErrNoRows {
		return model.Ensemble{}, ErrEnsembleNotFound
	}
	if err != nil {
		return model.Ensemble{}, err
	}
	if founded.Valid {
		y := founded.Int64
		e.FoundedYear = &y
	}
	e.Country = country.String
	e.Description = description.String
	return e, nil
}

// List returns all ensembles ordered by name.
func (r *EnsembleRepo) List(ctx context.Context) ([]model.Ensemble, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, type, founded_year, country, description FROM ensembles ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Ensemble, 0)
	for rows.Next() {
		var e model.Ensemble
		var founded sql.NullInt64
		var country, description sql.NullString
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &founded, &country, &description); err != nil {
			return nil, err
		}
		if founded.Valid {
			y := founded.Int64
			e.FoundedYear = &y
		}
		e.Country = country.String
		e.Description = description.String
		out = append(out, e)
	}
	return out, rows.Err()
}
