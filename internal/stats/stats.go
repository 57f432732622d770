// Package stats computes per-product movement statistics over fixed
// look-back windows.
package stats

import (
	"fmt"
	"time"

	"github.com/candleworks/waxpro/internal/models"
)

// Period selects the statistics look-back window
type Period string

const (
	PeriodDaily   Period = "DAILY"   // last 7 days
	PeriodWeekly  Period = "WEEKLY"  // last 8 weeks
	PeriodMonthly Period = "MONTHLY" // last 12 months
	PeriodYearly  Period = "YEARLY"  // last 5 years
)

// window returns the look-back duration for a period
func window(p Period) (time.Duration, error) {
	day := 24 * time.Hour
	switch p {
	case PeriodDaily:
		return 7 * day, nil
	case PeriodWeekly:
		return 8 * 7 * day, nil
	case PeriodMonthly:
		return 12 * 30 * day, nil
	case PeriodYearly:
		return 5 * 365 * day, nil
	default:
		return 0, fmt.Errorf("unknown period %q", p)
	}
}

// ProductStats summarizes a product's movements inside one window
type ProductStats struct {
	ProductID      string  `json:"productId"`
	Period         Period  `json:"period"`
	Sales          int     `json:"sales"`
	Restocks       int     `json:"restocks"`
	Returns        int     `json:"returns"`
	NetUnits       int     `json:"netUnits"`
	Revenue        float64 `json:"revenue"`
	TotalMovements int     `json:"totalMovements"`
	CurrentStock   int     `json:"currentStock"`
}

// MovementShare is one slice of the movement breakdown
type MovementShare struct {
	Type       models.TransactionType `json:"type"`
	Count      int                    `json:"count"`
	Percentage float64                `json:"percentage"`
}

// ForProduct computes statistics for one product over the given period,
// evaluated at the supplied reference time.
func ForProduct(product models.FinishedProduct, period Period, now time.Time) (ProductStats, error) {
	win, err := window(period)
	if err != nil {
		return ProductStats{}, err
	}
	cutoff := now.Add(-win).UnixMilli()

	s := ProductStats{
		ProductID:    product.ID,
		Period:       period,
		CurrentStock: product.Quantity,
	}
	for _, txn := range product.History {
		if txn.Timestamp < cutoff {
			continue
		}
		switch txn.Type {
		case models.TransactionSale:
			s.Sales++
		case models.TransactionRestock:
			s.Restocks++
		case models.TransactionReturn:
			s.Returns++
		}
	}

	s.NetUnits = s.Sales - s.Returns
	s.Revenue = float64(s.NetUnits) * product.SellingPrice
	s.TotalMovements = s.Sales + s.Restocks + s.Returns
	return s, nil
}

// Breakdown returns the movement share per type for a computed stats value
func Breakdown(s ProductStats) []MovementShare {
	if s.TotalMovements == 0 {
		return nil
	}

	shares := make([]MovementShare, 0, 3)
	for _, entry := range []struct {
		t models.TransactionType
		n int
	}{
		{models.TransactionSale, s.Sales},
		{models.TransactionRestock, s.Restocks},
		{models.TransactionReturn, s.Returns},
	} {
		if entry.n == 0 {
			continue
		}
		shares = append(shares, MovementShare{
			Type:       entry.t,
			Count:      entry.n,
			Percentage: float64(entry.n) / float64(s.TotalMovements) * 100,
		})
	}
	return shares
}
