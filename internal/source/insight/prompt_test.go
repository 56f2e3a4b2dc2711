package insight

import (
	"context"
	"strings"
	"testing"

	"postpulse/internal/analyzer"
)

func TestBuildPrompt_RendersSections(t *testing.T) {
	req := analyzer.Request{
		Product:  "Silver Oxidized Earrings",
		Category: "Jewelry",
		Keywords: []string{"silver", "earrings"},
		Hashtags: []string{"#silverjewelry"},
	}
	out := BuildPrompt(req)
	for _, want := range []string{"[PURPOSE]", "[PRODUCT]", "[OUTPUT]", "[RULES]",
		"Silver Oxidized Earrings", "Jewelry", "silver, earrings", "#silverjewelry",
		"Best days:", "Best time:", "Target regions:", "Festivals:", "Reasoning:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("prompt missing %q:\n%s", want, out)
		}
	}
}

func TestBuildPrompt_NoHashtagsSectionWhenAbsent(t *testing.T) {
	out := BuildPrompt(analyzer.Request{Product: "p", Category: "c", Keywords: []string{"k"}})
	if strings.Contains(out, "Hashtags:") {
		t.Fatal("prompt should omit the hashtag line when none were given")
	}
}

func TestFakeGenerator_ParsesCleanly(t *testing.T) {
	text, err := FakeGenerator{}.CulturalInsight(context.Background(), analyzer.Request{
		Product: "Brass Ganesh Idol", Category: "Spiritual Items", Keywords: []string{"brass"},
	})
	if err != nil {
		t.Fatalf("CulturalInsight: %v", err)
	}
	p := analyzer.ExtractInsight(text)
	if p.Confidence != 1.0 {
		t.Fatalf("the canned answer should populate all fields, confidence = %v", p.Confidence)
	}
	if len(p.Days) != 2 || p.Window.IsZero() {
		t.Fatalf("partial = %+v", p)
	}
}
