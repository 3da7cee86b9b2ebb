package postgres

import (
	"context"
	"errors"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

// CreateWithProfileTx inserts the account and its bare profile row in one
// transaction, so a profile row exists the moment the account does.
func (r *accountRepository) CreateWithProfileTx(ctx context.Context, params ports.CreateAccountParams) (domain.Account, error) {
	rec := accountModel{
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		CreatedAt:    params.CreatedAt,
		UpdatedAt:    params.CreatedAt,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		profile := profileModel{
			AccountID: rec.AccountID.String(),
			Email:     params.Email,
			CreatedAt: params.CreatedAt,
			UpdatedAt: params.CreatedAt,
		}
		if err := tx.Create(&profile).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	var rec accountModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Account{}, domain.ErrNotFound
		}
		return domain.Account{}, err
	}
	return toDomainAccount(rec), nil
}
