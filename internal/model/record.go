package model

import "time"

// Record is a sellable catalog item (a music release on disc), one
// row of the `records` table. Prices are kept as DECIMAL in the
// database and surfaced as float64 here, matching how the store
// displays them.
//
// current_stock must never go negative; the purchase transaction is
// the only writer of CurrentStock and SoldThisYear.
//
// Fields:
//  ID            – primary key identifier.
//  CatalogNumber – unique catalog code, e.g. "DG-427-123".
//  Title         – release title.
//  CompanyID     – producing company (companies.id).
//  ReleaseDate   – date of release (nullable).
//  WholesalePrice – purchase cost per unit.
//  RetailPrice   – sale price per unit.
//  CurrentStock  – units available for sale, >= 0.
//  SoldLastYear  – units sold in the previous year.
//  SoldThisYear  – units sold in the current year.
//  Rating        – optional average rating, added by a later
//                  migration (nullable).
type Record struct {
	ID             uint64     // records.id
	CatalogNumber  string     // records.catalog_number
	Title          string     // records.title
	CompanyID      uint64     // records.company_id
	ReleaseDate    *time.Time // records.release_date (nullable)
	WholesalePrice float64    // records.wholesale_price
	RetailPrice    float64    // records.retail_price
	CurrentStock   int64      // records.current_stock
	SoldLastYear   int64      // records.sold_last_year
	SoldThisYear   int64      // records.sold_this_year
	Rating         *float64   // records.rating (nullable)
}
