package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// UnderstatClient implements DataSource for understat.com expected goals data.
// Understat embeds its match data as a hex-escaped JSON literal inside a
// script tag on each league page, so fetching is a scrape-and-decode step
// rather than a JSON API call.
type UnderstatClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	leagues    []string
	enabled    bool
	logger     *logrus.Logger
}

// understatMatch mirrors the embedded datesData entries on a league page.
type understatMatch struct {
	ID       string `json:"id"`
	IsResult bool   `json:"isResult"`
	Home     struct {
		Title string `json:"title"`
	} `json:"h"`
	Away struct {
		Title string `json:"title"`
	} `json:"a"`
	Goals struct {
		Home string `json:"h"`
		Away string `json:"a"`
	} `json:"goals"`
	XG struct {
		Home string `json:"h"`
		Away string `json:"a"`
	} `json:"xG"`
	Datetime string `json:"datetime"`
}

var datesDataPattern = regexp.MustCompile(`datesData\s*=\s*JSON\.parse\('(.*?)'\)`)

// NewUnderstatClient creates a new understat.com client.
func NewUnderstatClient(httpClient *RateLimitedHTTPClient, baseURL string, leagues []string, enabled bool, logger *logrus.Logger) *UnderstatClient {
	if baseURL == "" {
		baseURL = "https://understat.com"
	}
	if len(leagues) == 0 {
		leagues = []string{"EPL"}
	}
	return &UnderstatClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		leagues:    leagues,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the name of the data source
func (c *UnderstatClient) Name() string {
	return "understat"
}

// IsEnabled returns whether this data source is currently enabled
func (c *UnderstatClient) IsEnabled() bool {
	return c.enabled
}

// FetchMatches retrieves matches with expected goals within the date range.
func (c *UnderstatClient) FetchMatches(ctx context.Context, startDate, endDate time.Time) ([]MatchData, error) {
	if !c.enabled {
		return nil, NewDataSourceError("understat", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	var matches []MatchData
	for year := seasonStartYear(startDate); year <= seasonStartYear(endDate); year++ {
		for _, league := range c.leagues {
			seasonMatches, err := c.fetchLeagueSeason(ctx, league, year)
			if err != nil {
				return nil, err
			}
			for _, m := range seasonMatches {
				if m.Date.Before(startDate) || m.Date.After(endDate) {
					continue
				}
				matches = append(matches, m)
			}
		}
	}

	c.logger.WithFields(logrus.Fields{
		"source":  "understat",
		"matches": len(matches),
	}).Debug("Fetched matches")

	return matches, nil
}

// fetchLeagueSeason scrapes one league season page and decodes the embedded
// match data.
func (c *UnderstatClient) fetchLeagueSeason(ctx context.Context, league string, year int) ([]MatchData, error) {
	url := fmt.Sprintf("%s/league/%s/%d", c.baseURL, league, year)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError("understat", ErrCodeNetworkError, "failed to fetch league page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError("understat", ErrCodeNotFound,
			fmt.Sprintf("no data for league %s season %d", league, year), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, NewDataSourceError("understat", ErrCodeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewDataSourceError("understat", ErrCodeNetworkError, "failed to read league page", err)
	}

	raw, err := extractDatesData(body)
	if err != nil {
		return nil, NewDataSourceError("understat", ErrCodeInvalidData, "failed to locate match data", err)
	}

	var usMatches []understatMatch
	if err := json.Unmarshal(raw, &usMatches); err != nil {
		return nil, NewDataSourceError("understat", ErrCodeInvalidData, "failed to parse match data", err)
	}

	season := fmt.Sprintf("%02d%02d", year%100, (year+1)%100)
	now := time.Now().UTC()
	matches := make([]MatchData, 0, len(usMatches))
	for _, um := range usMatches {
		if !um.IsResult {
			continue
		}
		date, err := time.Parse("2006-01-02 15:04:05", um.Datetime)
		if err != nil {
			continue
		}
		// Dates are truncated to midnight so they align with results feeds.
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

		matches = append(matches, MatchData{
			SourceID:    "understat-" + um.ID,
			Competition: league,
			Season:      season,
			Date:        date,
			HomeTeam:    um.Home.Title,
			AwayTeam:    um.Away.Title,
			HomeGoals:   parseIntField(um.Goals.Home),
			AwayGoals:   parseIntField(um.Goals.Away),
			HomeXG:      parseDecimalField(um.XG.Home),
			AwayXG:      parseDecimalField(um.XG.Away),
			CreatedAt:   now,
		})
	}

	return matches, nil
}

// extractDatesData pulls the hex-escaped JSON literal out of the page body
// and decodes it to plain JSON bytes.
func extractDatesData(body []byte) ([]byte, error) {
	m := datesDataPattern.FindSubmatch(body)
	if m == nil {
		return nil, fmt.Errorf("datesData literal not found")
	}
	return decodeHexEscapes(string(m[1]))
}

// decodeHexEscapes resolves \xHH escape sequences in the embedded literal.
func decodeHexEscapes(s string) ([]byte, error) {
	var out strings.Builder
	out.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			v, err := strconv.ParseUint(s[i+2:i+4], 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex escape at offset %d: %w", i, err)
			}
			out.WriteByte(byte(v))
			i += 4
			continue
		}
		out.WriteByte(s[i])
		i++
	}
	return []byte(out.String()), nil
}
