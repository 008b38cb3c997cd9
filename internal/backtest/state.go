package backtest

// BankrollState tracks the bankroll across one backtest run. Each run
// owns exactly one state; concurrent runs must never share it.
type BankrollState struct {
	Current float64
	Peak    float64
}

// NewBankrollState initializes run state from the starting bankroll
func NewBankrollState(initial float64) *BankrollState {
	return &BankrollState{
		Current: initial,
		Peak:    initial,
	}
}

// Settle applies a match's stake and payout to the bankroll. The engine
// guarantees totalStake <= Current, so the bankroll never goes negative.
func (s *BankrollState) Settle(totalStake, payout float64) {
	s.Current = s.Current - totalStake + payout
	if s.Current < 0 {
		s.Current = 0
	}
	if s.Current > s.Peak {
		s.Peak = s.Current
	}
}

// Drawdown calculates the current peak-to-trough drawdown
func (s *BankrollState) Drawdown() float64 {
	if s.Peak == 0 {
		return 0
	}
	drawdown := (s.Peak - s.Current) / s.Peak
	if drawdown < 0 {
		return 0
	}
	return drawdown
}
