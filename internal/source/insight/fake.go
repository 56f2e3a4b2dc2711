package insight

import (
	"context"
	"fmt"

	"postpulse/internal/analyzer"
)

// FakeGenerator returns a deterministic canned answer for offline and
// test runs. Used automatically when no Gemini key is configured.
type FakeGenerator struct{}

func (FakeGenerator) Name() string { return "FakeInsight" }
func (FakeGenerator) Close() error { return nil }

func (FakeGenerator) CulturalInsight(_ context.Context, req analyzer.Request) (string, error) {
	return fmt.Sprintf(`Best days: Friday, Saturday
Best time: 7pm-9pm
Target regions: Maharashtra, Gujarat
Festivals: Diwali
Season: Diwali season
Reasoning: %s buyers browse most in weekend evenings, and festive gifting lifts demand for %s.`,
		req.Category, req.Product), nil
}
