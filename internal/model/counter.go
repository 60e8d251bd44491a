package model

// SequenceCounter backs the per-entity, per-year number generator
// ({Type}-{YY}-{NNNN}). Incremented atomically under an advisory lock.
type SequenceCounter struct {
	ID       string `gorm:"type:varchar(60);primaryKey" json:"id"` // e.g. "Vendor_2025"
	Sequence int64  `gorm:"not null;default:0" json:"sequence"`
}
