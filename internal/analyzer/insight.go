package analyzer

import (
	"regexp"
	"strings"
)

// The extractor expects five loosely labeled fields in the model's answer:
// days, time window, regions, festivals/seasons, rationale. Each field is
// located independently; a missing field stays empty and only lowers the
// confidence, never fails the extraction.
const expectedInsightFields = 5

var (
	weekdayRe  = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)s?\b`)
	seasonRe   = regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)?)\s+[sS]eason\b`)
	clockTokRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?\b`)
	clockRngRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?\s*(?:-|–|—|to|till|until)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?\b`)
)

var dayparts = []struct {
	name   string
	window TimeWindow
}{
	{"early morning", TimeWindow{6, 8}},
	{"late night", TimeWindow{22, 24}},
	{"morning", TimeWindow{9, 11}},
	{"afternoon", TimeWindow{13, 16}},
	{"evening", TimeWindow{18, 21}},
	{"night", TimeWindow{20, 23}},
	{"noon", TimeWindow{12, 14}},
}

// ExtractInsight parses the raw model answer into a partial recommendation.
// Empty input yields an all-empty partial with confidence exactly 0.
func ExtractInsight(text string) PartialRecommendation {
	text = strings.TrimSpace(text)
	if text == "" {
		return PartialRecommendation{}
	}

	var p PartialRecommendation
	found := 0

	if days := extractDays(text); len(days) > 0 {
		p.Days = days
		found++
	}
	if w, ok := extractWindow(text); ok {
		p.Window = w
		found++
	}
	if regions := extractLabeledList(text, "target regions", "target region", "best regions", "regions", "region"); len(regions) > 0 {
		p.Regions = regions
		found++
	}
	p.Festivals = extractLabeledList(text, "festival spikes", "festivals", "festival")
	p.Seasons = extractSeasons(text)
	if len(p.Festivals) > 0 || len(p.Seasons) > 0 {
		found++
	}
	if rationale := extractRationale(text); rationale != "" {
		p.Rationale = rationale
		found++
	}

	p.Confidence = float64(found) / float64(expectedInsightFields)
	return p
}

// labeledValue finds the first "<label>: value" occurrence for any of the
// given labels, tolerating bullets, markdown emphasis and dash separators.
// Labels must be ordered longest-first by the caller.
func labeledValue(text string, labels ...string) (string, bool) {
	for _, label := range labels {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(label) + `[\s*_]*[:\-–][\s*_]*([^\n]+)`)
		if m := re.FindStringSubmatch(text); m != nil {
			if v := cleanValue(m[1]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

func cleanValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), "*_#>`\"'.,;:- ")
}

func splitList(s string) []string {
	for _, sep := range []string{"•", "·", ";", "/", " and ", " & "} {
		s = strings.ReplaceAll(s, sep, ",")
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	seen := map[string]bool{}
	for _, part := range parts {
		v := cleanValue(part)
		v = strings.TrimPrefix(v, "the ")
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}

func extractLabeledList(text string, labels ...string) []string {
	v, ok := labeledValue(text, labels...)
	if !ok {
		return nil
	}
	return splitList(v)
}

// extractDays prefers a labeled day list but falls back to scanning the whole
// answer, so "Saturday evening works best" still counts.
func extractDays(text string) []string {
	scope := text
	if v, ok := labeledValue(text, "best days to post", "best days", "days to post", "days"); ok {
		scope = v
	}
	matches := weekdayRe.FindAllString(scope, -1)
	if len(matches) == 0 && scope != text {
		matches = weekdayRe.FindAllString(text, -1)
	}
	out := make([]string, 0, len(matches))
	seen := map[int]bool{}
	for _, m := range matches {
		idx := dayIndexByName(m)
		if idx < 0 || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, weekdayNames[idx])
	}
	return out
}

func extractWindow(text string) (TimeWindow, bool) {
	scope := text
	if v, ok := labeledValue(text, "best time to post", "best time", "posting time", "time window", "time slot", "time"); ok {
		scope = v
	}
	if w, ok := parseClockRange(scope, scope != text); ok {
		return w, true
	}
	if w, ok := parseDaypart(scope); ok {
		return w, true
	}
	if scope != text {
		if w, ok := parseClockRange(text, false); ok {
			return w, true
		}
		if w, ok := parseDaypart(text); ok {
			return w, true
		}
	}
	return TimeWindow{}, false
}

// labeled relaxes the lone-token rule: inside a "Best time:" value a bare
// "19" is a clock hour, but in free prose it is usually just a number.
func parseClockRange(s string, labeled bool) (TimeWindow, bool) {
	if m := clockRngRe.FindStringSubmatch(s); m != nil {
		start, okS := hour24(m[1], m[3], m[6])
		end, okE := hour24(m[4], m[6], "")
		if okS && okE {
			if end <= start && start >= 12 && m[3] == "" {
				start -= 12
			}
			if end <= start {
				end = start + 2
				if end > 24 {
					end = 24
				}
			}
			return TimeWindow{StartHour: start, EndHour: end}, true
		}
	}
	// A lone "7pm" or "19:00" is treated as the start of a 2-hour window.
	// Unlabeled text needs a meridiem or a colon; a bare number there is
	// more likely a count than a clock.
	if m := clockTokRe.FindStringSubmatch(s); m != nil {
		if m[3] != "" || m[2] != "" || (labeled && atoiSafe(m[1]) >= 13) {
			if h, ok := hour24(m[1], m[3], ""); ok {
				end := h + 2
				if end > 24 {
					end = 24
				}
				return TimeWindow{StartHour: h, EndHour: end}, true
			}
		}
	}
	return TimeWindow{}, false
}

func parseDaypart(s string) (TimeWindow, bool) {
	low := strings.ToLower(s)
	for _, dp := range dayparts {
		if strings.Contains(low, dp.name) {
			return dp.window, true
		}
	}
	return TimeWindow{}, false
}

// hour24 converts an hour token to the 24h clock. fallback supplies the
// meridiem of the other end of a range when this token has none.
func hour24(hh, meridiem, fallback string) (int, bool) {
	h := atoiSafe(hh)
	if h < 0 || h > 24 {
		return 0, false
	}
	mer := strings.ToLower(strings.ReplaceAll(meridiem, ".", ""))
	if mer == "" {
		mer = strings.ToLower(strings.ReplaceAll(fallback, ".", ""))
	}
	switch mer {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	if h > 24 {
		return 0, false
	}
	return h, true
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	if s == "" {
		return -1
	}
	return n
}

func extractSeasons(text string) []string {
	out := extractLabeledList(text, "seasonal spikes", "season spike", "seasons", "season")
	for i, v := range out {
		out[i] = trimSeasonSuffix(v)
	}
	seen := map[string]bool{}
	for _, v := range out {
		seen[strings.ToLower(v)] = true
	}
	// Free-text mentions like "Diwali season" count too.
	for _, m := range seasonRe.FindAllStringSubmatch(text, -1) {
		v := cleanValue(m[1])
		if v == "" || seen[strings.ToLower(v)] || seasonStopwords[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}

// Capitalized sentence openers that precede "season" without naming one.
var seasonStopwords = map[string]bool{
	"the": true, "this": true, "that": true, "a": true, "every": true,
	"peak": true, "off": true, "during": true,
}

func trimSeasonSuffix(v string) string {
	low := strings.ToLower(v)
	for _, suffix := range []string{" seasons", " season"} {
		if strings.HasSuffix(low, suffix) {
			return cleanValue(v[:len(v)-len(suffix)])
		}
	}
	return v
}

func extractRationale(text string) string {
	v, ok := labeledValue(text, "cultural context", "reasoning", "rationale", "explanation", "why")
	if !ok {
		return ""
	}
	return v
}
