package relay

import (
	"errors"
	"time"

	"github.com/candleworks/waxpro/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateEmail is returned when an account already exists for an email
var ErrDuplicateEmail = errors.New("email already registered")

// UserStore is the account storage consumed by the relay handlers
type UserStore interface {
	Create(user *models.CloudUser) error
	FindByEmail(email string) (*models.CloudUser, error)
	FindByID(id string) (*models.CloudUser, error)
	UpdatePassword(id, hash string) error
	SetRecovery(id, token string) error
	TouchLogin(id string) error
}

// SnapshotStore is the one-row-per-user snapshot storage
type SnapshotStore interface {
	Upsert(row *models.UserData) error
	Fetch(userID string) (*models.UserData, error)
	Delete(userID string) error
}

// gormUserStore persists accounts in the cloud_users table
type gormUserStore struct {
	db *gorm.DB
}

// NewUserStore creates the gorm-backed account store
func NewUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) Create(user *models.CloudUser) error {
	var count int64
	s.db.Model(&models.CloudUser{}).Where("email = ?", user.Email).Count(&count)
	if count > 0 {
		return ErrDuplicateEmail
	}
	return s.db.Create(user).Error
}

func (s *gormUserStore) FindByEmail(email string) (*models.CloudUser, error) {
	var user models.CloudUser
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) FindByID(id string) (*models.CloudUser, error) {
	var user models.CloudUser
	if err := s.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormUserStore) UpdatePassword(id, hash string) error {
	return s.db.Model(&models.CloudUser{}).Where("id = ?", id).
		Updates(map[string]interface{}{"password_hash": hash, "recovery_token": nil}).Error
}

func (s *gormUserStore) SetRecovery(id, token string) error {
	now := time.Now()
	return s.db.Model(&models.CloudUser{}).Where("id = ?", id).
		Updates(map[string]interface{}{"recovery_token": token, "recovery_sent": now}).Error
}

func (s *gormUserStore) TouchLogin(id string) error {
	now := time.Now()
	return s.db.Model(&models.CloudUser{}).Where("id = ?", id).
		Update("last_login", now).Error
}

// gormSnapshotStore persists snapshots in the user_data table
type gormSnapshotStore struct {
	db *gorm.DB
}

// NewSnapshotStore creates the gorm-backed snapshot store
func NewSnapshotStore(db *gorm.DB) SnapshotStore {
	return &gormSnapshotStore{db: db}
}

func (s *gormSnapshotStore) Upsert(row *models.UserData) error {
	// user_id is the conflict target: exactly one row per user
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(row).Error
}

func (s *gormSnapshotStore) Fetch(userID string) (*models.UserData, error) {
	var row models.UserData
	err := s.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *gormSnapshotStore) Delete(userID string) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.UserData{}).Error
}
