package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StateRecord is the single local row holding the persisted InventoryState.
// Exactly one row exists, keyed by the fixed StateRecordKey.
type StateRecord struct {
	Key       string         `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for StateRecord
func (StateRecord) TableName() string {
	return "inventory_store"
}

// StateRecordKey is the fixed key of the single StateRecord row
const StateRecordKey = "current_state"

// CloudUser is an account on the relay backend
type CloudUser struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	Email         string     `gorm:"unique;not null" json:"email"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	RecoveryToken *string    `gorm:"index" json:"-"`
	RecoverySent  *time.Time `json:"-"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for CloudUser
func (CloudUser) TableName() string {
	return "cloud_users"
}

// UserData is the one-snapshot-per-user row on the relay backend. UserID is
// both primary key and conflict target, which enforces a single row per user.
type UserData struct {
	UserID    string         `gorm:"primaryKey;type:uuid" json:"user_id"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for UserData
func (UserData) TableName() string {
	return "user_data"
}
