package models

import (
	"time"

	"github.com/google/uuid"
)

// CurrentSchemaVersion is the version of the persisted InventoryState shape.
// Version 1 was the materials+products shape; version 2 added settings and
// transaction history. Loaders fill defaults for anything older.
const CurrentSchemaVersion = 2

// TransactionType classifies a stock movement on a finished product
type TransactionType string

const (
	TransactionSale    TransactionType = "SALE"
	TransactionRestock TransactionType = "RESTOCK"
	TransactionReturn  TransactionType = "RETURN"
)

// MaterialType classifies a raw material
type MaterialType string

const (
	MaterialWax       MaterialType = "WAX"
	MaterialFragrance MaterialType = "FRAGRANCE"
	MaterialWick      MaterialType = "WICK"
	MaterialContainer MaterialType = "CONTAINER"
	MaterialPackaging MaterialType = "PACKAGING"
	MaterialDye       MaterialType = "DYE"
)

// Transaction is one append-only history entry on a finished product
type Transaction struct {
	ID        string          `json:"id"`
	Type      TransactionType `json:"type"`
	Timestamp int64           `json:"timestamp"`
}

// FinishedProduct is a sellable candle held in stock
type FinishedProduct struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Quantity            int           `json:"quantity"`
	ReorderLevel        int           `json:"reorderLevel"`
	CostPerUnit         float64       `json:"costPerUnit"`
	SellingPrice        float64       `json:"sellingPrice"`
	ContainerSize       float64       `json:"containerSize"`
	FragrancePercentage float64       `json:"fragrancePercentage"`
	CreatedAt           int64         `json:"createdAt"`
	History             []Transaction `json:"history"`
}

// LowStock reports whether the product is at or below its reorder threshold
func (p FinishedProduct) LowStock() bool {
	return p.Quantity <= p.ReorderLevel
}

// RawMaterial is a production input (wax, fragrance, wick, ...).
// Unit prices are per gram/milliliter for WAX/FRAGRANCE/DYE, per piece otherwise.
type RawMaterial struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      MaterialType `json:"type"`
	Quantity  float64      `json:"quantity"`
	UnitPrice float64      `json:"unitPrice"`
	Unit      string       `json:"unit"`
}

// Language codes offered by the onboarding gate
type Language string

const (
	LanguageIT Language = "it"
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
	LanguageDE Language = "de"
	LanguageES Language = "es"
	LanguageAR Language = "ar"
	LanguageZH Language = "zh"
)

// Currency codes offered by the onboarding gate
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
)

// Symbol returns the display symbol for a currency
func (c Currency) Symbol() string {
	if c == CurrencyUSD {
		return "$"
	}
	return "€"
}

// Settings holds the user preferences chosen during onboarding.
// A nil Settings pointer on InventoryState means onboarding is incomplete.
type Settings struct {
	Language Language `json:"language"`
	Currency Currency `json:"currency"`
}

// Complete reports whether both onboarding choices have been made
func (s *Settings) Complete() bool {
	return s != nil && s.Language != "" && s.Currency != ""
}

// InventoryState is the single persisted aggregate. It is saved, transmitted
// and merged as one snapshot; there is no field-level remote storage.
type InventoryState struct {
	SchemaVersion    int               `json:"schemaVersion"`
	FinishedProducts []FinishedProduct `json:"finishedProducts"`
	RawMaterials     []RawMaterial     `json:"rawMaterials"`
	Settings         *Settings         `json:"settings,omitempty"`

	// LastSynced is local-only metadata (ms since epoch of the last successful
	// remote write). It is stripped before upload.
	LastSynced *int64 `json:"lastSynced,omitempty"`
}

// EmptyState returns the default document used when nothing has been persisted
// yet or the store is unreadable.
func EmptyState() InventoryState {
	return InventoryState{
		SchemaVersion:    CurrentSchemaVersion,
		FinishedProducts: []FinishedProduct{},
		RawMaterials:     []RawMaterial{},
	}
}

// Normalize fills defaults for fields absent in older persisted revisions and
// stamps the current schema version. Safe on the zero value.
func (s InventoryState) Normalize() InventoryState {
	if s.FinishedProducts == nil {
		s.FinishedProducts = []FinishedProduct{}
	}
	if s.RawMaterials == nil {
		s.RawMaterials = []RawMaterial{}
	}
	for i := range s.FinishedProducts {
		if s.FinishedProducts[i].History == nil {
			s.FinishedProducts[i].History = []Transaction{}
		}
		if s.FinishedProducts[i].Quantity < 0 {
			s.FinishedProducts[i].Quantity = 0
		}
	}
	if s.Settings != nil && !s.Settings.Complete() {
		s.Settings = nil
	}
	s.SchemaVersion = CurrentSchemaVersion
	return s
}

// WithoutLocalMeta returns a copy suitable for remote upload
func (s InventoryState) WithoutLocalMeta() InventoryState {
	s.LastSynced = nil
	return s
}

// UserProfile mirrors the authenticated identity held in memory; it is never
// persisted independently.
type UserProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewID generates an opaque unique identifier for products and transactions
func NewID() string {
	return uuid.NewString()
}

// NowMillis returns the current time in milliseconds since epoch, the unit
// used by transaction timestamps and lastSynced.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
