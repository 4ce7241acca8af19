package repository

import (
	"context"
	"database/sql"
)

// CatalogRepo serves the read-only browse queries: store
// statistics, compositions of an ensemble and records of an
// ensemble. All results use deterministic ordering so responses
// are stable and cacheable.
type CatalogRepo struct{ db *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// Stats holds the entity counts shown on the store front page.
type Stats struct {
	Ensembles    int64 `json:"ensembles"`
	Compositions int64 `json:"compositions"`
	Records      int64 `json:"records"`
	Musicians    int64 `json:"musicians"`
}

// Stats counts the main catalog entities.
func (r *CatalogRepo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	counts := []struct {
		table string
		dst   *int64
	}{
		{"ensembles", &s.Ensembles},
		{"compositions", &s.Compositions},
		{"records", &s.Records},
		{"musicians", &s.Musicians},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table).Scan(c.dst); err != nil {
			return Stats{}, err
		}
	}
	return s, nil
}

// EnsembleComposition is one work performed by an ensemble, with
// the composer resolved for display.
type EnsembleComposition struct {
	Title        string  `json:"title"`
	Genre        string  `json:"genre"`
	YearComposed *int64  `json:"year_composed,omitempty"`
	ComposerName *string `json:"composer_name,omitempty"`
}

// CompositionsByEnsemble returns the distinct works an ensemble has
// performed, ordered by title.
func (r *CatalogRepo) CompositionsByEnsemble(ctx context.Context, ensembleID uint64) ([]EnsembleComposition, error) {
	const q = `SELECT DISTINCT c.title, c.genre, c.year_composed, m.name
	           FROM compositions c
	           JOIN performances p ON c.id = p.composition_id
	           LEFT JOIN musicians m ON c.composer_id = m.id
	           WHERE p.ensemble_id = ?
	           ORDER BY c.title`
	rows, err := r.db.QueryContext(ctx, q, ensembleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]EnsembleComposition, 0)
	for rows.Next() {
		var ec EnsembleComposition
		var genre sql.NullString
		var year sql.NullInt64
		var composer sql.NullString
		if err := rows.Scan(&ec.Title, &genre, &year, &composer); err != nil {
			return nil, err
		}
		ec.Genre = genre.String
		if year.Valid {
			y := year.Int64
			ec.YearComposed = &y
		}
		if composer.Valid {
			n := composer.String
			ec.ComposerName = &n
		}
		out = append(out, ec)
	}
	return out, rows.Err()
}

// EnsembleRecord is one release featuring an ensemble, through the
// record_tracks -> performances chain.
type EnsembleRecord struct {
	CatalogNumber string  `json:"catalog_number"`
	Title         string  `json:"title"`
	ReleaseDate   *string `json:"release_date,omitempty"`
	RetailPrice   float64 `json:"retail_price"`
	CompanyName   string  `json:"company_name"`
}

// RecordsByEnsemble returns the distinct records containing at
// least one performance by the ensemble, ordered by title.
func (r *CatalogRepo) RecordsByEnsemble(ctx context.Context, ensembleID uint64) ([]EnsembleRecord, error) {
	const q = `SELECT DISTINCT r.catalog_number, r.title, r.release_date,
	                  r.retail_price, comp.name
	           FROM records r
	           JOIN record_tracks rt ON r.id = rt.record_id
	           JOIN performances p ON rt.performance_id = p.id
	           JOIN companies comp ON r.company_id = comp.id
	           WHERE p.ensemble_id = ?
	           ORDER BY r.title`
	rows, err := r.db.QueryContext(ctx, q, ensembleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]EnsembleRecord, 0)
	for rows.Next() {
		var er EnsembleRecord
		var release sql.NullTime
		if err := rows.Scan(&er.CatalogNumber, &er.Title, &release, &er.RetailPrice, &er.CompanyName); err != nil {
			return nil, err
		}
		if release.Valid {
			d := release.Time.Format("2006-01-02")
			er.ReleaseDate = &d
		}
		out = append(out, er)
	}
	return out, rows.Err()
}
