package datasource

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func testClient() *FootballDataClient {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewFootballDataClient(nil, "", nil, true, logger)
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

// TestParseCSVCompleteRow tests parsing of a finished fixture with odds
func TestParseCSVCompleteRow(t *testing.T) {
	csv := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG,B365H,B365D,B365A\n" +
		"E0,16/09/2023,Arsenal,Man United,3,1,1.85,3.80,4.20\n"

	matches, err := testClient().parseCSV(strings.NewReader(csv), "E0", "2324")
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}

	m := matches[0]
	if m.SourceID != "E0-2324-arsenal-20230916" {
		t.Errorf("unexpected source ID %q", m.SourceID)
	}
	if m.HomeGoals == nil || *m.HomeGoals != 3 {
		t.Errorf("expected 3 home goals, got %v", m.HomeGoals)
	}
	if m.HomeOdds == nil || !m.HomeOdds.Equal(decimalFromString(t, "1.85")) {
		t.Errorf("expected home odds 1.85, got %v", m.HomeOdds)
	}
	if !m.Date.Equal(time.Date(2023, 9, 16, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected date %v", m.Date)
	}
}

// TestParseCSVSkipsUnplayedRows tests that fixtures without results are dropped
func TestParseCSVSkipsUnplayedRows(t *testing.T) {
	csv := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG\n" +
		"E0,16/09/2023,Arsenal,Chelsea,2,0\n" +
		"E0,17/09/2023,Spurs,Fulham,,\n" +
		"E0,bad-date,Wolves,Everton,1,1\n"

	matches, err := testClient().parseCSV(strings.NewReader(csv), "E0", "2324")
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected only the finished fixture, got %d", len(matches))
	}
	if matches[0].HomeOdds != nil {
		t.Error("expected nil odds when columns are absent")
	}
}

// TestParseCSVMissingRequiredColumn tests header validation
func TestParseCSVMissingRequiredColumn(t *testing.T) {
	csv := "Div,Date,HomeTeam,AwayTeam,FTHG\nE0,16/09/2023,A,B,1\n"

	_, err := testClient().parseCSV(strings.NewReader(csv), "E0", "2324")
	var dsErr DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("expected DataSourceError, got %v", err)
	}
	if dsErr.Code != ErrCodeInvalidData {
		t.Errorf("expected invalid data code, got %s", dsErr.Code)
	}
}

// TestParseCSVRaggedRows tests tolerance for short trailing rows
func TestParseCSVRaggedRows(t *testing.T) {
	csv := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG,B365H\n" +
		"E0,16/09/2023,Arsenal,Chelsea,2,0\n"

	matches, err := testClient().parseCSV(strings.NewReader(csv), "E0", "2324")
	if err != nil {
		t.Fatalf("parseCSV failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}

func TestSeasonsInRange(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []string
	}{
		{
			"single season",
			time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			[]string{"2324"},
		},
		{
			"august rollover",
			time.Date(2023, 7, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC),
			[]string{"2223", "2324"},
		},
		{
			"three seasons",
			time.Date(2021, 9, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			[]string{"2122", "2223", "2324"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := seasonsInRange(tt.start, tt.end)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestParseFootballDataDate(t *testing.T) {
	long, err := parseFootballDataDate("16/09/2023")
	if err != nil {
		t.Fatalf("long format failed: %v", err)
	}
	short, err := parseFootballDataDate("16/09/23")
	if err != nil {
		t.Fatalf("short format failed: %v", err)
	}
	if !long.Equal(short) {
		t.Errorf("formats disagree: %v vs %v", long, short)
	}
	if _, err := parseFootballDataDate("2023-09-16"); err == nil {
		t.Error("expected error for ISO date")
	}
}

func TestDecodeHexEscapes(t *testing.T) {
	decoded, err := decodeHexEscapes(`\x5B\x7B\x22id\x22\x3A\x221\x22\x7D\x5D`)
	if err != nil {
		t.Fatalf("decodeHexEscapes failed: %v", err)
	}
	if string(decoded) != `[{"id":"1"}]` {
		t.Errorf("unexpected decode result %q", decoded)
	}

	passthrough, err := decodeHexEscapes("plain text")
	if err != nil {
		t.Fatalf("passthrough failed: %v", err)
	}
	if string(passthrough) != "plain text" {
		t.Errorf("plain text mangled: %q", passthrough)
	}

	if _, err := decodeHexEscapes(`\xZZ bad`); err == nil {
		t.Error("expected error for invalid hex escape")
	}
}

func TestExtractDatesData(t *testing.T) {
	page := []byte(`<script>var datesData = JSON.parse('\x5B\x5D');</script>`)
	raw, err := extractDatesData(page)
	if err != nil {
		t.Fatalf("extractDatesData failed: %v", err)
	}
	if string(raw) != "[]" {
		t.Errorf("expected empty array, got %q", raw)
	}

	if _, err := extractDatesData([]byte("<html></html>")); err == nil {
		t.Error("expected error when literal is absent")
	}
}

func TestDataSourceErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := NewDataSourceError("football_data", ErrCodeNetworkError, "fetch failed", inner)
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to unwrap")
	}
}

func TestDisabledSourceRefusesFetch(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := NewFootballDataClient(nil, "", nil, false, logger)

	_, err := client.FetchMatches(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	if err == nil {
		t.Fatal("expected error from disabled source")
	}
}
