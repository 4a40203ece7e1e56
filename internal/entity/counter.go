package entity

// Counter is a named monotonically increasing sequence. Values are
// allocated atomically in the database, never read-then-written.
type Counter struct {
	Name  string `gorm:"type:varchar(64);primaryKey"`
	Value int64  `gorm:"not null"`
}
