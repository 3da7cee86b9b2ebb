package postgres

import (
	"time"

	"github.com/google/uuid"
)

type accountModel struct {
	AccountID    uuid.UUID `gorm:"column:account_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (accountModel) TableName() string { return "accounts" }

// account_id is text rather than uuid: in hosted mode the identifier is
// whatever opaque string the external backend issued.
type profileModel struct {
	AccountID   string     `gorm:"column:account_id;primaryKey"`
	Email       string     `gorm:"column:email"`
	FirstName   string     `gorm:"column:first_name"`
	LastName    string     `gorm:"column:last_name"`
	Headline    string     `gorm:"column:headline"`
	Location    string     `gorm:"column:location"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (profileModel) TableName() string { return "profiles" }
