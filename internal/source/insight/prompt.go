package insight

import (
	"bytes"
	"fmt"
	"strings"

	"postpulse/internal/analyzer"
)

// BuildPrompt renders the structured prompt for one product context. The
// labeled output fields line up with what the analyzer's extractor looks
// for, but the extractor never assumes the model obeyed the format.
func BuildPrompt(req analyzer.Request) string {
	var buf bytes.Buffer
	writeSection(&buf, "PURPOSE",
		"Recommend when to publish an Instagram post for the product below so it reaches the most engaged audience in India.")
	writeSection(&buf, "PRODUCT", formatProduct(req))
	writeSection(&buf, "OUTPUT", strings.Join([]string{
		"- Best days: comma-separated weekday names",
		"- Best time: a clock range such as 7pm-9pm",
		"- Target regions: comma-separated Indian states or regions",
		"- Festivals: upcoming festivals relevant to the product",
		"- Season: the buying season driving demand, if any",
		"- Reasoning: one short paragraph on the cultural and seasonal context",
	}, "\n"))
	writeSection(&buf, "RULES", strings.Join([]string{
		"- Answer in plain text with the labels above, one per line.",
		"- Leave a label out entirely if you have nothing confident to say for it.",
		"- Do not invent engagement numbers.",
	}, "\n"))
	return strings.TrimSpace(buf.String()) + "\n"
}

func formatProduct(req analyzer.Request) string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Name: %s\nCategory: %s\nKeywords: %s", req.Product, req.Category, strings.Join(req.Keywords, ", "))
	if len(req.Hashtags) > 0 {
		fmt.Fprintf(&buf, "\nHashtags: %s", strings.Join(req.Hashtags, " "))
	}
	return buf.String()
}

func writeSection(buf *bytes.Buffer, name, body string) {
	body = strings.TrimSpace(body)
	if body == "" {
		return
	}
	fmt.Fprintf(buf, "[%s]\n%s\n\n", name, body)
}
