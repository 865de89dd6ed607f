package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"codeberg.org/snonux/hanzirecall/internal/hanzi"
)

// DefaultCCDBBaseURL is the public Chinese Character Database endpoint
const DefaultCCDBBaseURL = "http://ccdb.hemiola.com"

const ccdbFields = "kDefinition,kMandarin,kRSKangXi"

// CCDBProvider looks characters up in the Chinese Character Database
type CCDBProvider struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewCCDBProvider creates a CCDB provider. A nil client means
// http.DefaultClient; timeouts come from the caller's context.
func NewCCDBProvider(baseURL, userAgent string, client *http.Client) *CCDBProvider {
	if baseURL == "" {
		baseURL = DefaultCCDBBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CCDBProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    client,
	}
}

func (p *CCDBProvider) Name() hanzi.ProviderID {
	return hanzi.ProviderCCDB
}

// IsAvailable only checks configuration, the service itself is not probed
func (p *CCDBProvider) IsAvailable() error {
	if p.baseURL == "" {
		return fmt.Errorf("CCDB base URL not configured")
	}
	return nil
}

type ccdbRecord struct {
	Definition string `json:"kDefinition"`
	Mandarin   string `json:"kMandarin"`
	RSKangXi   string `json:"kRSKangXi"`
}

func (r ccdbRecord) empty() bool {
	return r.Definition == "" && r.Mandarin == "" && r.RSKangXi == ""
}

// LookupCharacter fetches glyph from CCDB. The radical glyph and meaning
// are left empty for the resolver to fill from the radical table.
func (p *CCDBProvider) LookupCharacter(ctx context.Context, glyph string) (*hanzi.CharacterInfo, error) {
	endpoint := fmt.Sprintf("%s/characters/string/%s?fields=%s",
		p.baseURL, url.PathEscape(glyph), ccdbFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newError(p.Name(), KindUnavailable, "failed to create request: %w", err)
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, callError(p.Name(), fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, newError(p.Name(), KindNotFound, "no entry for %q", glyph)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, newError(p.Name(), KindUnavailable, "unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, callError(p.Name(), fmt.Errorf("failed to read response: %w", err))
	}

	return p.parse(glyph, body)
}

func (p *CCDBProvider) parse(glyph string, body []byte) (*hanzi.CharacterInfo, error) {
	var records []ccdbRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, newError(p.Name(), KindMalformed, "failed to decode response: %w", err)
	}
	if len(records) == 0 || records[0].empty() {
		return nil, newError(p.Name(), KindNotFound, "no entry for %q", glyph)
	}

	rec := records[0]
	meaning := strings.TrimSpace(rec.Definition)
	if meaning == "" {
		return nil, newError(p.Name(), KindMalformed, "empty definition for %q", glyph)
	}

	radicalID, err := ParseRadicalID(rec.RSKangXi)
	if err != nil {
		return nil, &Error{Provider: p.Name(), Kind: KindMalformed, Err: err}
	}

	pronunciation := firstField(rec.Mandarin)
	if pronunciation == "" {
		pronunciation = Reading(glyph)
	}
	if pronunciation == "" {
		return nil, newError(p.Name(), KindMalformed, "no pronunciation for %q", glyph)
	}

	return &hanzi.CharacterInfo{
		Glyph:         glyph,
		Pronunciation: strings.ToLower(pronunciation),
		Meaning:       meaning,
		RadicalID:     radicalID,
		Source:        p.Name(),
	}, nil
}

// ParseRadicalID extracts the Kangxi radical number from a kRSKangXi
// value such as "85.3" (radical 85 plus 3 residual strokes)
func ParseRadicalID(rs string) (string, error) {
	rs = firstField(rs)
	if rs == "" {
		return "", fmt.Errorf("missing radical-stroke value")
	}

	id, _, _ := strings.Cut(rs, ".")
	id = strings.TrimSuffix(id, "'") // Simplified-form marker
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		return "", fmt.Errorf("invalid radical-stroke value %q", rs)
	}
	return strconv.Itoa(n), nil
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
