package backtest

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// EquityPoint represents a point in the equity curve
type EquityPoint struct {
	Time     time.Time `json:"time"`
	Value    float64   `json:"value"`
	Drawdown float64   `json:"drawdown"`
}

// EquityCurve represents the bankroll time-series of one run
type EquityCurve []EquityPoint

// EquityCurve derives the equity curve from a ledger, starting at the
// initial bankroll
func (l Ledger) EquityCurve(initialBankroll float64) EquityCurve {
	curve := make(EquityCurve, 0, len(l)+1)
	peak := initialBankroll
	if len(l) > 0 {
		curve = append(curve, EquityPoint{Time: l[0].Date, Value: initialBankroll})
	}
	for _, entry := range l {
		if entry.BankrollAfter > peak {
			peak = entry.BankrollAfter
		}
		drawdown := 0.0
		if peak > 0 && entry.BankrollAfter < peak {
			drawdown = (peak - entry.BankrollAfter) / peak
		}
		curve = append(curve, EquityPoint{
			Time:     entry.Date,
			Value:    entry.BankrollAfter,
			Drawdown: drawdown,
		})
	}
	return curve
}

// GetReturns calculates periodic returns from the equity curve
func (e EquityCurve) GetReturns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Value
		curr := e[i].Value
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (curr-prev)/prev)
	}
	return returns
}

// GetVolatility calculates standard deviation of returns
func (e EquityCurve) GetVolatility() float64 {
	returns := e.GetReturns()
	if len(returns) == 0 {
		return 0
	}
	mean := average(returns)
	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns))
	return math.Sqrt(variance)
}

// ToCSV exports the equity curve to a CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("time,value,drawdown\n")
	for _, point := range e {
		buf.WriteString(point.Time.Format(time.RFC3339))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Value))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Drawdown))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the equity curve to a JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}
