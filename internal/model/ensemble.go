package model

// Ensemble is a performing group (orchestra, quartet, jazz trio and
// so on), one row of the `ensembles` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – ensemble name.
//  Type        – kind of ensemble (orchestra, quartet, ...).
//  FoundedYear – year the ensemble was founded (nullable).
//  Country     – country of origin.
//  Description – free-form description.
type Ensemble struct {
	ID          uint64  // ensembles.id
	Name        string  // ensembles.name
	Type        string  // ensembles.type
	FoundedYear *int64  // ensembles.founded_year (nullable)
	Country     string  // ensembles.country
	Description string  // ensembles.description
}

// EnsembleMember links a musician to an ensemble with the role they
// hold in it (`ensemble_members` table).
type EnsembleMember struct {
	ID             uint64 // ensemble_members.id
	EnsembleID     uint64 // ensemble_members.ensemble_id
	MusicianID     uint64 // ensemble_members.musician_id
	RoleInEnsemble string // ensemble_members.role_in_ensemble
	JoinedYear     *int64 // ensemble_members.joined_year (nullable)
}
