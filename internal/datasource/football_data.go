package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const dataSourceDisabledMsg = "data source is disabled"

// FootballDataClient implements DataSource for football-data.co.uk season CSV
// archives. Each competition and season pair is a single CSV file carrying
// results and closing bookmaker odds.
type FootballDataClient struct {
	httpClient   *RateLimitedHTTPClient
	baseURL      string
	competitions []string
	enabled      bool
	logger       *logrus.Logger
}

// NewFootballDataClient creates a new football-data.co.uk client.
func NewFootballDataClient(httpClient *RateLimitedHTTPClient, baseURL string, competitions []string, enabled bool, logger *logrus.Logger) *FootballDataClient {
	if baseURL == "" {
		baseURL = "https://www.football-data.co.uk/mmz4281"
	}
	if len(competitions) == 0 {
		competitions = []string{"E0"}
	}
	return &FootballDataClient{
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(baseURL, "/"),
		competitions: competitions,
		enabled:      enabled,
		logger:       logger,
	}
}

// Name returns the name of the data source
func (c *FootballDataClient) Name() string {
	return "football_data"
}

// IsEnabled returns whether this data source is currently enabled
func (c *FootballDataClient) IsEnabled() bool {
	return c.enabled
}

// FetchMatches retrieves matches within the specified date range. Every season
// archive overlapping the range is downloaded and filtered by date.
func (c *FootballDataClient) FetchMatches(ctx context.Context, startDate, endDate time.Time) ([]MatchData, error) {
	if !c.enabled {
		return nil, NewDataSourceError("football_data", ErrCodeNetworkError, dataSourceDisabledMsg, nil)
	}

	var matches []MatchData
	for _, season := range seasonsInRange(startDate, endDate) {
		for _, competition := range c.competitions {
			seasonMatches, err := c.fetchSeason(ctx, competition, season)
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
		"source":  "football_data",
		"matches": len(matches),
		"from":    startDate.Format("2006-01-02"),
		"to":      endDate.Format("2006-01-02"),
	}).Debug("Fetched matches")

	return matches, nil
}

// fetchSeason downloads and parses a single season CSV for a competition.
func (c *FootballDataClient) fetchSeason(ctx context.Context, competition, season string) ([]MatchData, error) {
	url := fmt.Sprintf("%s/%s/%s.csv", c.baseURL, season, competition)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, NewDataSourceError("football_data", ErrCodeNetworkError, "failed to fetch season archive", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError("football_data", ErrCodeNotFound,
			fmt.Sprintf("no archive for %s season %s", competition, season), nil)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewDataSourceError("football_data", ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	return c.parseCSV(resp.Body, competition, season)
}

// parseCSV converts a football-data.co.uk season CSV into MatchData records.
// Rows missing results are skipped; rows missing odds are kept with nil odds
// so the validation layer can decide their fate.
func (c *FootballDataClient) parseCSV(r io.Reader, competition, season string) ([]MatchData, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // archives occasionally carry ragged trailing columns

	header, err := reader.Read()
	if err != nil {
		return nil, NewDataSourceError("football_data", ErrCodeInvalidData, "failed to read CSV header", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG"} {
		if _, ok := col[required]; !ok {
			return nil, NewDataSourceError("football_data", ErrCodeInvalidData,
				fmt.Sprintf("missing column %s", required), nil)
		}
	}

	now := time.Now().UTC()
	var matches []MatchData
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewDataSourceError("football_data", ErrCodeInvalidData, "failed to read CSV row", err)
		}

		date, err := parseFootballDataDate(field(row, col, "Date"))
		if err != nil {
			continue
		}

		homeGoals := parseIntField(field(row, col, "FTHG"))
		awayGoals := parseIntField(field(row, col, "FTAG"))
		if homeGoals == nil || awayGoals == nil {
			continue // unplayed or abandoned fixture
		}

		homeTeam := field(row, col, "HomeTeam")
		awayTeam := field(row, col, "AwayTeam")
		if homeTeam == "" || awayTeam == "" {
			continue
		}

		matches = append(matches, MatchData{
			SourceID:    fmt.Sprintf("%s-%s-%s-%s", competition, season, slug(homeTeam), date.Format("20060102")),
			Competition: competition,
			Season:      season,
			Date:        date,
			HomeTeam:    homeTeam,
			AwayTeam:    awayTeam,
			HomeGoals:   homeGoals,
			AwayGoals:   awayGoals,
			HomeOdds:    parseDecimalField(field(row, col, "B365H")),
			DrawOdds:    parseDecimalField(field(row, col, "B365D")),
			AwayOdds:    parseDecimalField(field(row, col, "B365A")),
			CreatedAt:   now,
		})
	}

	return matches, nil
}

// seasonsInRange returns football-data.co.uk season codes ("2324") covering
// the date range. Seasons roll over on the first of August.
func seasonsInRange(startDate, endDate time.Time) []string {
	startYear := seasonStartYear(startDate)
	endYear := seasonStartYear(endDate)

	var seasons []string
	for year := startYear; year <= endYear; year++ {
		seasons = append(seasons, fmt.Sprintf("%02d%02d", year%100, (year+1)%100))
	}
	return seasons
}

func seasonStartYear(t time.Time) int {
	if t.Month() >= time.August {
		return t.Year()
	}
	return t.Year() - 1
}

// parseFootballDataDate handles both dd/mm/yy and dd/mm/yyyy archive formats.
func parseFootballDataDate(s string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "02/01/06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

func field(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseIntField(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseDecimalField(s string) *decimal.Decimal {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}
