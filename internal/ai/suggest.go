package ai

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces text completions. Satisfied by Client; tests use a fake.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Suggester builds candle-specific prompts on top of a text generator
type Suggester struct {
	gen Generator
}

// NewSuggester creates a suggester backed by the given generator
func NewSuggester(gen Generator) *Suggester {
	return &Suggester{gen: gen}
}

// ProductDescription drafts a short marketing description for a candle
func (s *Suggester) ProductDescription(ctx context.Context, name, fragrance string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("product name is required")
	}

	var b strings.Builder
	b.WriteString("Write a short, warm product description (2-3 sentences) for a handmade candle named \"")
	b.WriteString(name)
	b.WriteString("\".")
	if fragrance != "" {
		b.WriteString(" Its fragrance is ")
		b.WriteString(fragrance)
		b.WriteString(".")
	}
	b.WriteString(" Do not use markdown formatting.")

	return s.gen.GenerateContent(ctx, b.String())
}

// FragrancePairings suggests fragrance oils that pair well with a base scent
func (s *Suggester) FragrancePairings(ctx context.Context, baseScent string) (string, error) {
	if strings.TrimSpace(baseScent) == "" {
		return "", fmt.Errorf("base scent is required")
	}

	prompt := fmt.Sprintf(
		"List 5 fragrance oils that pair well with %s in a soy wax candle. "+
			"For each, give the name and a one-line reason. Plain text, no markdown.",
		baseScent)

	return s.gen.GenerateContent(ctx, prompt)
}
