// Package store implements the local persistent store: one JSON document in
// the local database plus a flat-file mirror kept for legacy-read
// compatibility. Failures never propagate to callers; Load degrades to the
// empty default and Save/Clear report a boolean.
package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/candleworks/waxpro/internal/database"
	"github.com/candleworks/waxpro/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirrorFileName is the flat fallback document next to the database
const MirrorFileName = "waxpro_manager_data.json"

// Recorder is the primary key-value record storage backing the store
type Recorder interface {
	Put(key string, payload []byte) error
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// ErrNotFound is returned by a Recorder when no record exists for the key
var ErrNotFound = errors.New("record not found")

// gormRecorder stores records in the inventory_store table
type gormRecorder struct {
	db *gorm.DB
}

func (r *gormRecorder) Put(key string, payload []byte) error {
	record := models.StateRecord{Key: key, Payload: payload}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&record).Error
}

func (r *gormRecorder) Get(key string) ([]byte, error) {
	var record models.StateRecord
	err := r.db.Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record.Payload, nil
}

func (r *gormRecorder) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&models.StateRecord{}).Error
}

// Store is the local persistent store for the inventory snapshot
type Store struct {
	recorder   Recorder
	mirrorPath string
}

// New creates a store backed by the local database with a file mirror in dataDir
func New(db *database.DB, dataDir string) *Store {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Printf("⚠️  Store: could not create data dir %s: %v", dataDir, err)
	}
	return &Store{
		recorder:   &gormRecorder{db: db.DB},
		mirrorPath: filepath.Join(dataDir, MirrorFileName),
	}
}

// NewWithRecorder creates a store over a custom Recorder (used in tests)
func NewWithRecorder(rec Recorder, dataDir string) *Store {
	return &Store{
		recorder:   rec,
		mirrorPath: filepath.Join(dataDir, MirrorFileName),
	}
}

// Load returns the last-written document, or the empty default if none exists
// or the store is unreadable. It never returns an error.
func (s *Store) Load() models.InventoryState {
	payload, err := s.recorder.Get(models.StateRecordKey)
	if err == nil {
		var state models.InventoryState
		if jsonErr := json.Unmarshal(payload, &state); jsonErr == nil {
			return state.Normalize()
		}
		log.Printf("⚠️  Store: corrupt primary record, trying mirror: %v", err)
	} else if !errors.Is(err, ErrNotFound) {
		log.Printf("⚠️  Store: primary read failed, trying mirror: %v", err)
	}

	// Legacy/fallback path: flat mirror file
	data, err := os.ReadFile(s.mirrorPath)
	if err == nil {
		var state models.InventoryState
		if jsonErr := json.Unmarshal(data, &state); jsonErr == nil {
			return state.Normalize()
		}
		log.Printf("⚠️  Store: corrupt mirror file: %v", err)
	}

	return models.EmptyState()
}

// Save persists the full document, overwriting any previous value, and mirrors
// it into the fallback file. Returns false when the primary write fails.
func (s *Store) Save(state models.InventoryState) bool {
	payload, err := json.Marshal(state.Normalize())
	if err != nil {
		log.Printf("⚠️  Store: marshal failed: %v", err)
		return false
	}

	// Mirror write is best effort; the primary record decides the result.
	if err := os.WriteFile(s.mirrorPath, payload, 0o644); err != nil {
		log.Printf("⚠️  Store: mirror write failed: %v", err)
	}

	if err := s.recorder.Put(models.StateRecordKey, payload); err != nil {
		log.Printf("⚠️  Store: primary write failed: %v", err)
		return false
	}
	return true
}

// Clear removes the persisted document and the fallback mirror
func (s *Store) Clear() bool {
	ok := true
	if err := s.recorder.Delete(models.StateRecordKey); err != nil {
		log.Printf("⚠️  Store: primary delete failed: %v", err)
		ok = false
	}
	if err := os.Remove(s.mirrorPath); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Store: mirror delete failed: %v", err)
		ok = false
	}
	return ok
}
