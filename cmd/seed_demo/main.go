package main

import (
	"fmt"
	"log"
	"time"

	"github.com/candleworks/waxpro/internal/config"
	"github.com/candleworks/waxpro/internal/database"
	"github.com/candleworks/waxpro/internal/models"
	"github.com/candleworks/waxpro/internal/store"
)

func main() {
	fmt.Println("🌱 WaxPro Demo Data Seeder")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("✅ Connected to database")

	if err := db.AutoMigrate(&models.StateRecord{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	localStore := store.New(db, cfg.DataDir)
	existing := localStore.Load()
	if len(existing.FinishedProducts) > 0 {
		log.Fatalf("❌ Store already holds %d products, refusing to overwrite", len(existing.FinishedProducts))
	}

	state := demoState()
	if !localStore.Save(state) {
		log.Fatal("❌ Failed to save demo data")
	}

	fmt.Printf("✅ Seeded %d products and %d raw materials\n",
		len(state.FinishedProducts), len(state.RawMaterials))
}

// demoState builds a small workshop inventory with a few weeks of history
func demoState() models.InventoryState {
	now := time.Now()
	daysAgo := func(d int) int64 { return now.AddDate(0, 0, -d).UnixMilli() }
	txn := func(t models.TransactionType, day int) models.Transaction {
		return models.Transaction{ID: models.NewID(), Type: t, Timestamp: daysAgo(day)}
	}

	state := models.EmptyState()
	state.Settings = &models.Settings{Language: models.LanguageEN, Currency: models.CurrencyEUR}
	state.FinishedProducts = []models.FinishedProduct{
		{
			ID: models.NewID(), Name: "Lavender Dream", Quantity: 12, ReorderLevel: 5,
			CostPerUnit: 4.20, SellingPrice: 14.90, ContainerSize: 200, FragrancePercentage: 8,
			CreatedAt: daysAgo(60),
			History: []models.Transaction{
				txn(models.TransactionRestock, 30),
				txn(models.TransactionSale, 14),
				txn(models.TransactionSale, 6),
				txn(models.TransactionSale, 2),
				txn(models.TransactionReturn, 1),
			},
		},
		{
			ID: models.NewID(), Name: "Vanilla Amber", Quantity: 4, ReorderLevel: 5,
			CostPerUnit: 3.80, SellingPrice: 12.50, ContainerSize: 180, FragrancePercentage: 10,
			CreatedAt: daysAgo(45),
			History: []models.Transaction{
				txn(models.TransactionRestock, 20),
				txn(models.TransactionSale, 10),
				txn(models.TransactionSale, 4),
			},
		},
		{
			ID: models.NewID(), Name: "Citrus Grove", Quantity: 20, ReorderLevel: 6,
			CostPerUnit: 4.50, SellingPrice: 15.90, ContainerSize: 220, FragrancePercentage: 7,
			CreatedAt: daysAgo(15),
			History: []models.Transaction{
				txn(models.TransactionRestock, 15),
			},
		},
	}
	state.RawMaterials = []models.RawMaterial{
		{ID: models.NewID(), Name: "Soy Wax C-55", Type: models.MaterialWax, Quantity: 5000, UnitPrice: 0.008, Unit: "g"},
		{ID: models.NewID(), Name: "Lavender Oil", Type: models.MaterialFragrance, Quantity: 250, UnitPrice: 0.12, Unit: "ml"},
		{ID: models.NewID(), Name: "ECO-10 Wicks", Type: models.MaterialWick, Quantity: 80, UnitPrice: 0.15, Unit: "pcs"},
		{ID: models.NewID(), Name: "Amber Jar 200ml", Type: models.MaterialContainer, Quantity: 40, UnitPrice: 1.10, Unit: "pcs"},
	}
	return state
}
