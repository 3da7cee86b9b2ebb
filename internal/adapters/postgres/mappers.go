package postgres

import (
	"errors"

	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/domain"
	"gorm.io/gorm"
)

func toDomainAccount(row accountModel) domain.Account {
	return domain.Account{
		AccountID:    row.AccountID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainProfile(row profileModel) domain.Profile {
	return domain.Profile{
		AccountID:   row.AccountID,
		Email:       row.Email,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Headline:    row.Headline,
		Location:    row.Location,
		CompletedAt: row.CompletedAt,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
