package backtest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/yourusername/pitch-edge/internal/models"
)

// EntryFlag marks audit conditions recorded on a ledger entry
type EntryFlag string

const (
	// FlagNone marks a normally settled entry
	FlagNone EntryFlag = ""
	// FlagStakeClamped marks an entry whose requested stake exceeded the
	// bankroll and was forced to zero
	FlagStakeClamped EntryFlag = "stake_clamped"
	// FlagInvalidOdds marks an entry skipped because the odds line was
	// missing a required outcome
	FlagInvalidOdds EntryFlag = "invalid_odds"
)

// LedgerEntry records one match's stake, payout and bankroll transition.
// Entries are created once by the engine and never mutated.
type LedgerEntry struct {
	MatchID        string               `json:"match_id"`
	Date           time.Time            `json:"date"`
	Prediction     models.Prediction    `json:"prediction"`
	Odds           models.OddsLine      `json:"odds"`
	Stakes         models.StakeDecision `json:"stakes"`
	TotalStake     float64              `json:"total_stake"`
	Payout         float64              `json:"payout"`
	TrueOutcome    models.Outcome       `json:"true_outcome"`
	BankrollBefore float64              `json:"bankroll_before"`
	BankrollAfter  float64              `json:"bankroll_after"`
	Flag           EntryFlag            `json:"flag,omitempty"`
}

// Won reports whether the entry staked the realized outcome
func (e LedgerEntry) Won() bool {
	return e.Payout > 0
}

// Ledger is the ordered record of one backtest run
type Ledger []LedgerEntry

// FinalBankroll returns the bankroll after the last entry, or the given
// initial bankroll for an empty ledger
func (l Ledger) FinalBankroll(initial float64) float64 {
	if len(l) == 0 {
		return initial
	}
	return l[len(l)-1].BankrollAfter
}

// Returns calculates the per-match return series (bankroll deltas relative
// to the bankroll entering each match). Matches entered with a zero
// bankroll contribute a zero return.
func (l Ledger) Returns() []float64 {
	returns := make([]float64, 0, len(l))
	for _, entry := range l {
		if entry.BankrollBefore == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (entry.BankrollAfter-entry.BankrollBefore)/entry.BankrollBefore)
	}
	return returns
}

// Checkpoint captures a run at per-match granularity: the ledger produced
// so far plus the bankroll carried into the next match. A run resumed from
// a checkpoint produces the same ledger a single uninterrupted run would.
type Checkpoint struct {
	Entries  Ledger  `json:"entries"`
	Bankroll float64 `json:"bankroll"`
}

// Checkpoint snapshots the ledger for resumption
func (l Ledger) Checkpoint(initialBankroll float64) Checkpoint {
	entries := make(Ledger, len(l))
	copy(entries, l)
	return Checkpoint{
		Entries:  entries,
		Bankroll: l.FinalBankroll(initialBankroll),
	}
}

// ToCSV exports the ledger to a CSV string
func (l Ledger) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("match_id,date,total_stake,payout,bankroll_before,bankroll_after,flag\n")
	for _, entry := range l {
		buf.WriteString(entry.MatchID)
		buf.WriteString(",")
		buf.WriteString(entry.Date.Format("2006-01-02"))
		buf.WriteString(",")
		buf.WriteString(formatFloat(entry.TotalStake))
		buf.WriteString(",")
		buf.WriteString(formatFloat(entry.Payout))
		buf.WriteString(",")
		buf.WriteString(formatFloat(entry.BankrollBefore))
		buf.WriteString(",")
		buf.WriteString(formatFloat(entry.BankrollAfter))
		buf.WriteString(",")
		buf.WriteString(string(entry.Flag))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the ledger to a JSON string
func (l Ledger) ToJSON() string {
	data, _ := json.Marshal(l)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
