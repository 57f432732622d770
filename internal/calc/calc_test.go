package calc

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSplit(t *testing.T) {
	result, err := Split(SplitInput{TotalWeight: 200, FragrancePercent: 10, ColorantPercent: 5})
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if !almostEqual(result.Fragrance, 20) {
		t.Errorf("fragrance = %v, want 20", result.Fragrance)
	}
	if !almostEqual(result.Colorant, 10) {
		t.Errorf("colorant = %v, want 10", result.Colorant)
	}
	if !almostEqual(result.Wax, 170) {
		t.Errorf("wax = %v, want 170", result.Wax)
	}
	if result.Unit != "g" {
		t.Errorf("unit defaults to g, got %q", result.Unit)
	}
}

func TestSplitValidation(t *testing.T) {
	cases := []struct {
		name string
		in   SplitInput
	}{
		{"zero weight", SplitInput{TotalWeight: 0, FragrancePercent: 10}},
		{"negative weight", SplitInput{TotalWeight: -5, FragrancePercent: 10}},
		{"fragrance too low", SplitInput{TotalWeight: 100, FragrancePercent: 0.5}},
		{"fragrance too high", SplitInput{TotalWeight: 100, FragrancePercent: 36}},
		{"colorant too high", SplitInput{TotalWeight: 100, FragrancePercent: 10, ColorantPercent: 26}},
		{"negative colorant", SplitInput{TotalWeight: 100, FragrancePercent: 10, ColorantPercent: -1}},
	}
	for _, c := range cases {
		if _, err := Split(c.in); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}

func TestTotalCost(t *testing.T) {
	total := TotalCost(CostInput{
		Wax: 1.2, Wick: 0.15, Container: 1.1, Fragrance: 0.8, Colorant: 0.05, Shipping: 0.5,
	})
	if !almostEqual(total, 3.8) {
		t.Errorf("total = %v, want 3.8", total)
	}

	if got := TotalCost(CostInput{}); got != 0 {
		t.Errorf("empty input must cost 0, got %v", got)
	}
}
