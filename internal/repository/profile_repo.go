package repository

import (
	"context"

	"craftcurio/internal/entity"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	CreateArtisan(ctx context.Context, profile *entity.ArtisanProfile) error
	CreateCollector(ctx context.Context, profile *entity.CollectorProfile) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) CreateArtisan(ctx context.Context, profile *entity.ArtisanProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *profileRepository) CreateCollector(ctx context.Context, profile *entity.CollectorProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}
