package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/avdonin/record-store/internal/model"
)

// RecordRepo provides CRUD access to the records table. Stock
// mutations do NOT happen here: current_stock and sold_this_year
// are written only by the purchase transaction (PurchaseRepo), so
// Update deliberately leaves them alone.
type RecordRepo struct{ db *sql.DB }

func NewRecordRepo(db *sql.DB) *RecordRepo { return &RecordRepo{db: db} }

// DB exposes the pool so handlers can open transactions spanning
// several repositories.
func (r *RecordRepo) DB() *sql.DB { return r.db }

// RecordRow is a record joined with its company name for listings.
type RecordRow struct {
	model.Record
	CompanyName string
}

// Create inserts a record and returns its id. A duplicate
// catalog_number surfaces as ErrCatalogNumberExists; exactly one
// row per catalog number can ever exist.
func (r *RecordRepo) Create(ctx context.Context, rec *model.Record) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO records (catalog_number, title, company_id, release_date,
			wholesale_price, retail_price, current_stock, sold_last_year, sold_this_year, rating)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.CatalogNumber, rec.Title, rec.CompanyID, rec.ReleaseDate,
		rec.WholesalePrice, rec.RetailPrice, rec.CurrentStock,
		rec.SoldLastYear, rec.SoldThisYear, rec.Rating)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrCatalogNumberExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update rewrites the descriptive fields of a record. Zero affected
// rows on a changed payload means the id does not exist; that is
// surfaced as ErrRecordNotFound rather than silently succeeding, so
// a mistaken target id is caught by the caller.
func (r *RecordRepo) Update(ctx context.Context, rec *model.Record) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE records SET catalog_number=?, title=?, company_id=?, release_date=?,
			wholesale_price=?, retail_price=?, rating=?
		 WHERE id=?`,
		rec.CatalogNumber, rec.Title, rec.CompanyID, rec.ReleaseDate,
		rec.WholesalePrice, rec.RetailPrice, rec.Rating, rec.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrCatalogNumberExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "missing id" from "unchanged row": MySQL reports
		// zero affected rows for both.
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			"SELECT EXISTS(SELECT 1 FROM records WHERE id=?)", rec.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrRecordNotFound
		}
	}
	return nil
}

// Delete removes a record. A missing id surfaces as
// ErrRecordNotFound.
func (r *RecordRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM records WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

const recordColumns = `r.id, r.catalog_number, r.title, r.company_id, r.release_date,
	r.wholesale_price, r.retail_price, r.current_stock, r.sold_last_year, r.sold_this_year, r.rating`

// GetByID fetches one record. Missing ids surface as
// ErrRecordNotFound.
func (r *RecordRepo) GetByID(ctx context.Context, id uint64) (model.Record, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM records r WHERE r.id=? LIMIT 1", id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return model.Record{}, ErrRecordNotFound
	}
	return rec, err
}

// ListWithCompany returns every record joined with its company
// name, ordered by title, for the management view.
func (r *RecordRepo) ListWithCompany(ctx context.Context) ([]RecordRow, error) {
	return r.listRows(ctx,
		`SELECT `+recordColumns+`, comp.name
		 FROM records r
		 JOIN companies comp ON comp.id = r.company_id
		 ORDER BY r.title`)
}

// ListInStock returns records with positive stock for the buyer
// catalog, ordered by title.
func (r *RecordRepo) ListInStock(ctx context.Context) ([]RecordRow, error) {
	return r.listRows(ctx,
		`SELECT `+recordColumns+`, comp.name
		 FROM records r
		 JOIN companies comp ON comp.id = r.company_id
		 WHERE r.current_stock > 0
		 ORDER BY r.title`)
}

// SalesLeaders returns the top records by units sold this year,
// best sellers first.
func (r *RecordRepo) SalesLeaders(ctx context.Context, limit int) ([]RecordRow, error) {
	if limit <= 0 {
		limit = 10
	}
	return r.listRows(ctx,
		`SELECT `+recordColumns+`, comp.name
		 FROM records r
		 JOIN companies comp ON comp.id = r.company_id
		 WHERE r.sold_this_year > 0
		 ORDER BY r.sold_this_year DESC, r.title
		 LIMIT ?`, limit)
}

func (r *RecordRepo) listRows(ctx context.Context, query string, args ...interface{}) ([]RecordRow, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]RecordRow, 0)
	for rows.Next() {
		var rr RecordRow
		var releaseDate sql.NullTime
		var rating sql.NullFloat64
		if err := rows.Scan(&rr.ID, &rr.CatalogNumber, &rr.Title, &rr.CompanyID, &releaseDate,
			&rr.WholesalePrice, &rr.RetailPrice, &rr.CurrentStock,
			&rr.SoldLastYear, &rr.SoldThisYear, &rating, &rr.CompanyName); err != nil {
			return nil, err
		}
		if releaseDate.Valid {
			t := releaseDate.Time
			rr.ReleaseDate = &t
		}
		if rating.Valid {
			f := rating.Float64
			rr.Rating = &f
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func scanRecord(row rowScanner) (model.Record, error) {
	var rec model.Record
	var releaseDate sql.NullTime
	var rating sql.NullFloat64
	err := row.Scan(&rec.ID, &rec.CatalogNumber, &rec.Title, &rec.CompanyID, &releaseDate,
		&rec.WholesalePrice, &rec.RetailPrice, &rec.CurrentStock,
		&rec.SoldLastYear, &rec.SoldThisYear, &rating)
	if err != nil {
		return model.Record{}, err
	}
	if releaseDate.Valid {
		t := releaseDate.Time
		rec.ReleaseDate = &t
	}
	if rating.Valid {
		f := rating.Float64
		rec.Rating = &f
	}
	return rec, nil
}
