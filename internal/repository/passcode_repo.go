package repository

import (
	"context"
	"errors"

	"craftcurio/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PasscodeRepository interface {
	// Upsert replaces any existing passcode for (email, purpose) in a
	// single statement so concurrent issuance cannot leave two active
	// codes behind.
	Upsert(ctx context.Context, passcode *entity.OneTimePasscode) error
	FindLatest(ctx context.Context, email string, purpose entity.PasscodePurpose) (*entity.OneTimePasscode, error)
	IncrementAttempts(ctx context.Context, id uuid.UUID) error
	MarkVerified(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type passcodeRepository struct {
	db *gorm.DB
}

func NewPasscodeRepository(db *gorm.DB) PasscodeRepository {
	return &passcodeRepository{db: db}
}

func (r *passcodeRepository) Upsert(ctx context.Context, p *entity.OneTimePasscode) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}, {Name: "purpose"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"code", "expires_at", "verified", "attempts", "payload", "created_at",
			}),
		}).
		Create(p).Error
}

func (r *passcodeRepository) FindLatest(
	ctx context.Context,
	email string,
	purpose entity.PasscodePurpose,
) (*entity.OneTimePasscode, error) {

	var passcode entity.OneTimePasscode
	err := r.db.WithContext(ctx).
		Where("email = ? AND purpose = ? AND verified = false", email, purpose).
		Order("created_at DESC").
		First(&passcode).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &passcode, err
}

func (r *passcodeRepository) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.OneTimePasscode{}).
		Where("id = ?", id).
		Update("attempts", gorm.Expr("attempts + 1")).
		Error
}

func (r *passcodeRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.OneTimePasscode{}).
		Where("id = ?", id).
		Update("verified", true).
		Error
}

func (r *passcodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.OneTimePasscode{}).
		Error
}
