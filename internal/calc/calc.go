// Package calc holds the candle-making arithmetic: wax/fragrance/colorant
// weight splits and production cost summation.
package calc

import "fmt"

// SplitInput is a weight-split request
type SplitInput struct {
	TotalWeight      float64 `json:"totalWeight"`
	FragrancePercent float64 `json:"fragrancePercent"`
	ColorantPercent  float64 `json:"colorantPercent"`
	Unit             string  `json:"unit"`
}

// SplitResult is the computed weight split
type SplitResult struct {
	Wax       float64 `json:"wax"`
	Fragrance float64 `json:"fragrance"`
	Colorant  float64 `json:"colorant"`
	Unit      string  `json:"unit"`
}

// Split computes wax, fragrance and colorant weights from a total weight and
// percentages. Fragrance load runs 1-35%, colorant 0-25%.
func Split(in SplitInput) (SplitResult, error) {
	if in.TotalWeight <= 0 {
		return SplitResult{}, fmt.Errorf("total weight must be positive")
	}
	if in.FragrancePercent < 1 || in.FragrancePercent > 35 {
		return SplitResult{}, fmt.Errorf("fragrance percent must be between 1 and 35")
	}
	if in.ColorantPercent < 0 || in.ColorantPercent > 25 {
		return SplitResult{}, fmt.Errorf("colorant percent must be between 0 and 25")
	}

	unit := in.Unit
	if unit == "" {
		unit = "g"
	}

	fragrance := in.TotalWeight * in.FragrancePercent / 100
	colorant := in.TotalWeight * in.ColorantPercent / 100
	return SplitResult{
		Wax:       in.TotalWeight - fragrance - colorant,
		Fragrance: fragrance,
		Colorant:  colorant,
		Unit:      unit,
	}, nil
}

// CostInput lists the per-candle cost components
type CostInput struct {
	Wax       float64 `json:"wax"`
	Wick      float64 `json:"wick"`
	Container float64 `json:"container"`
	Fragrance float64 `json:"fragrance"`
	Colorant  float64 `json:"colorant"`
	Shipping  float64 `json:"shipping"`
}

// TotalCost sums the production cost components
func TotalCost(in CostInput) float64 {
	return in.Wax + in.Wick + in.Container + in.Fragrance + in.Colorant + in.Shipping
}
