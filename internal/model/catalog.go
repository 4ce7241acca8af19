package model

import "time"

// Musician is a composer, performer or conductor referenced by
// compositions, performances and ensemble memberships.
type Musician struct {
	ID          uint64  // musicians.id
	Name        string  // musicians.name
	Role        string  // musicians.role (composer, performer, conductor)
	Instruments *string // musicians.instruments (nullable)
	BirthYear   *int64  // musicians.birth_year (nullable)
	Country     string  // musicians.country
}

// Company is a record label / producing company.
type Company struct {
	ID           uint64  // companies.id
	Name         string  // companies.name
	Address      *string // companies.address (nullable)
	Phone        *string // companies.phone (nullable)
	Email        *string // companies.email (nullable)
	IsWholesaler bool    // companies.is_wholesaler
}

// Composition is a musical work, optionally linked to its composer.
type Composition struct {
	ID              uint64 // compositions.id
	Title           string // compositions.title
	ComposerID      *uint64 // compositions.composer_id (nullable)
	Genre           string // compositions.genre
	YearComposed    *int64 // compositions.year_composed (nullable)
	DurationMinutes *int64 // compositions.duration_minutes (nullable)
}

// Performance is a recorded performance of a composition by an
// ensemble, optionally under a conductor.
type Performance struct {
	ID            uint64     // performances.id
	CompositionID uint64     // performances.composition_id
	EnsembleID    uint64     // performances.ensemble_id
	ConductorID   *uint64    // performances.conductor_id (nullable)
	RecordingDate *time.Time // performances.recording_date (nullable)
	Venue         string     // performances.venue
}

// RecordTrack maps a performance onto a track of a record
// (many-to-many between records and performances).
type RecordTrack struct {
	ID            uint64 // record_tracks.id
	RecordID      uint64 // record_tracks.record_id
	PerformanceID uint64 // record_tracks.performance_id
	TrackNumber   int64  // record_tracks.track_number
}
