package postgres

import (
	"github.com/SHANMUK026/career-match-ai-hub-sub001/internal/ports"
	"gorm.io/gorm"
)

// Repositories bundles the Postgres-backed implementations of the storage
// ports.
type Repositories struct {
	Profiles ports.ProfileStore
	Accounts ports.AccountRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Profiles: &profileRepository{db: db},
		Accounts: &accountRepository{db: db},
	}
}
