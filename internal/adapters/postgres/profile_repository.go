package postgres

import (
	"context"
	"errors"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

func (r *profileRepository) CreateWithDefaults(ctx context.Context, params ports.CreateProfileParams) (domain.Profile, error) {
	rec := profileModel{
		AccountID: params.AccountID,
		Email:     params.Email,
		FirstName: "",
		LastName:  "",
		Headline:  "",
		Location:  "",
		CreatedAt: params.CreatedAt,
		UpdatedAt: params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Profile{}, domain.ErrConflict
		}
		return domain.Profile{}, err
	}
	return toDomainProfile(rec), nil
}

func (r *profileRepository) GetByAccountID(ctx context.Context, accountID string) (domain.Profile, error) {
	var rec profileModel
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Profile{}, domain.ErrNotFound
		}
		return domain.Profile{}, err
	}
	return toDomainProfile(rec), nil
}

// CompleteProfile is a strict update of an existing row. Zero rows affected
// means the bare row was never provisioned for this account.
func (r *profileRepository) CompleteProfile(ctx context.Context, params ports.CompleteProfileParams) (domain.Profile, error) {
	res := r.db.WithContext(ctx).Model(&profileModel{}).Where("account_id = ?", params.AccountID).Updates(map[string]any{
		"first_name":   params.FirstName,
		"last_name":    params.LastName,
		"completed_at": params.CompletedAt,
		"updated_at":   params.CompletedAt,
	})
	if res.Error != nil {
		return domain.Profile{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Profile{}, domain.ErrNotFound
	}
	return r.GetByAccountID(ctx, params.AccountID)
}
