package entity

import (
	"time"

	"github.com/google/uuid"
)

// ArtisanProfile is created as a side effect of signing up with the
// artisan role. DisplayID is a human-readable identifier ("artisan42")
// allocated from the counters table.
type ArtisanProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	DisplayID string `gorm:"type:varchar(64);uniqueIndex;not null"`

	CreatedAt time.Time
}

// CollectorProfile mirrors ArtisanProfile for the collector role.
type CollectorProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	User   User      `gorm:"constraint:OnDelete:CASCADE"`

	DisplayID string `gorm:"type:varchar(64);uniqueIndex;not null"`

	CreatedAt time.Time
}
