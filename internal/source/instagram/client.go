// Package instagram fetches post-level engagement from the Instagram Graph
// API for a business account.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"postpulse/internal/analyzer"
)

const (
	defaultBaseURL = "https://graph.facebook.com/v18.0"
	defaultLimit   = 50

	// insights.metric(saved) replaced the retired "saves" metric name.
	mediaFields = "id,caption,like_count,comments_count,timestamp,media_type,insights.metric(impressions,reach,saved)"
)

type Config struct {
	AccessToken       string
	BusinessAccountID string
	BaseURL           string
	Limit             int
	HTTPClient        *http.Client
}

type Client struct {
	cfg  Config
	http *http.Client
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" || strings.TrimSpace(cfg.BusinessAccountID) == "" {
		return nil, fmt.Errorf("instagram: access token and business account id are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = defaultLimit
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{cfg: cfg, http: httpClient}, nil
}

// RecentMedia returns engagement records for the account's recent posts.
// The product context is accepted for interface symmetry; the Graph API
// media listing is account-scoped, not product-scoped.
func (c *Client) RecentMedia(ctx context.Context, _ analyzer.Request) ([]analyzer.EngagementRecord, error) {
	q := url.Values{}
	q.Set("fields", mediaFields)
	q.Set("access_token", c.cfg.AccessToken)
	q.Set("limit", fmt.Sprintf("%d", c.cfg.Limit))
	endpoint := fmt.Sprintf("%s/%s/media?%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.BusinessAccountID, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram: media request failed: %s", resp.Status)
	}

	var envelope mediaEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("instagram: decode media response: %w", err)
	}

	out := make([]analyzer.EngagementRecord, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		ts, err := parseTimestamp(item.Timestamp)
		if err != nil {
			// One bad post must not sink the whole fetch.
			continue
		}
		rec := analyzer.EngagementRecord{
			Timestamp: ts,
			Likes:     item.LikeCount,
			Comments:  item.CommentsCount,
		}
		for _, metric := range item.Insights.Data {
			v := metric.firstValue()
			switch metric.Name {
			case "saved":
				rec.Saves = v
			case "reach":
				rec.Reach = v
			case "impressions":
				rec.Impressions = v
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

type mediaEnvelope struct {
	Data []mediaItem `json:"data"`
}

type mediaItem struct {
	ID            string `json:"id"`
	Timestamp     string `json:"timestamp"`
	LikeCount     int    `json:"like_count"`
	CommentsCount int    `json:"comments_count"`
	MediaType     string `json:"media_type"`
	Insights      struct {
		Data []insightMetric `json:"data"`
	} `json:"insights"`
}

type insightMetric struct {
	Name   string `json:"name"`
	Values []struct {
		Value int `json:"value"`
	} `json:"values"`
}

func (m insightMetric) firstValue() int {
	if len(m.Values) == 0 {
		return 0
	}
	return m.Values[0].Value
}

// parseTimestamp handles the Graph API's compact offset form as well as
// plain RFC 3339.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("instagram: unparseable timestamp %q", s)
}
