package backtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	applogger "github.com/yourusername/pitch-edge/internal/logger"
	"github.com/yourusername/pitch-edge/internal/metrics"
	"github.com/yourusername/pitch-edge/internal/models"
	"github.com/yourusername/pitch-edge/internal/predictor"
	"github.com/yourusername/pitch-edge/internal/staking"
)

// Engine replays finalized matches in chronological order, sizes bets via
// the staking strategy and settles them against the true outcomes.
type Engine struct {
	config    Config
	predictor predictor.Predictor
	strategy  staking.Strategy
	logger    *logrus.Logger
	events    *applogger.BacktestLogger
}

// NewEngine creates a new backtesting engine
func NewEngine(cfg Config, pred predictor.Predictor, strat staking.Strategy, logger *logrus.Logger) (*Engine, error) {
	if pred == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if strat == nil {
		return nil, fmt.Errorf("strategy is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		config:    cfg,
		predictor: pred,
		strategy:  strat,
		logger:    logger,
		events:    applogger.NewBacktestLogger(logger),
	}, nil
}

// Config returns the backtest configuration
func (e *Engine) Config() Config {
	return e.config
}

// Run replays matches from a fresh bankroll and returns the ledger.
//
// The input must already be sorted ascending by (date, match_id); an
// out-of-order record aborts the run with an OrderingError before any
// entry is produced. A predictor failure aborts mid-run but still returns
// the partial ledger so the caller can checkpoint and retry.
func (e *Engine) Run(ctx context.Context, matches []*models.MatchRecord) (Ledger, error) {
	e.events.LogRunStarted(e.strategy.Name(), len(matches), e.config.InitialBankroll)
	return e.runInstrumented(ctx, matches, NewBankrollState(e.config.InitialBankroll), nil)
}

// ResumeFrom continues a run from a checkpoint over the remaining matches.
// The remaining sequence must itself be ordered; entries already settled
// are carried over unchanged.
func (e *Engine) ResumeFrom(ctx context.Context, checkpoint Checkpoint, remaining []*models.MatchRecord) (Ledger, error) {
	state := &BankrollState{Current: checkpoint.Bankroll, Peak: checkpoint.Bankroll}
	for _, entry := range checkpoint.Entries {
		if entry.BankrollBefore > state.Peak {
			state.Peak = entry.BankrollBefore
		}
		if entry.BankrollAfter > state.Peak {
			state.Peak = entry.BankrollAfter
		}
	}
	return e.runInstrumented(ctx, remaining, state, checkpoint.Entries)
}

// runInstrumented wraps a replay with run-level metrics and event logging.
func (e *Engine) runInstrumented(ctx context.Context, matches []*models.MatchRecord, state *BankrollState, prior Ledger) (Ledger, error) {
	start := time.Now()
	ledger, err := e.replay(ctx, matches, state, prior)
	if err != nil {
		metrics.RecordBacktestRun(e.strategy.Name(), "failure")
		e.events.LogRunFailed(e.strategy.Name(), failedMatchID(err), err.Error(), len(ledger))
		return ledger, err
	}

	staked := 0
	for _, entry := range ledger {
		if entry.TotalStake > 0 {
			staked++
		}
	}
	final := ledger.FinalBankroll(e.config.InitialBankroll)
	totalReturn := 0.0
	if e.config.InitialBankroll > 0 {
		totalReturn = (final - e.config.InitialBankroll) / e.config.InitialBankroll
	}
	elapsed := time.Since(start)

	metrics.RecordBacktestRun(e.strategy.Name(), "success")
	metrics.RecordBacktestOutcome(e.strategy.Name(), final, len(ledger))
	metrics.RecordBacktestDuration(elapsed.Seconds())
	e.events.LogRunCompleted(e.strategy.Name(), len(ledger), staked, final, totalReturn, float64(elapsed.Milliseconds()))
	return ledger, nil
}

func failedMatchID(err error) string {
	var ordering *OrderingError
	if errors.As(err, &ordering) {
		return ordering.MatchID
	}
	var prediction *PredictionError
	if errors.As(err, &prediction) {
		return prediction.MatchID
	}
	return ""
}

func (e *Engine) replay(ctx context.Context, matches []*models.MatchRecord, state *BankrollState, prior Ledger) (Ledger, error) {
	if err := validateOrdering(matches); err != nil {
		return Ledger{}, err
	}

	ledger := make(Ledger, len(prior), len(prior)+len(matches))
	copy(ledger, prior)

	for _, match := range matches {
		select {
		case <-ctx.Done():
			return ledger, ctx.Err()
		default:
		}

		entry, err := e.processMatch(ctx, match, state)
		if err != nil {
			return ledger, err
		}
		ledger = append(ledger, entry)
	}

	return ledger, nil
}

func (e *Engine) processMatch(ctx context.Context, match *models.MatchRecord, state *BankrollState) (LedgerEntry, error) {
	before := state.Current

	if missing, ok := match.Odds.MissingOutcome(); ok {
		oddsErr := &InvalidOddsError{MatchID: match.MatchID, Missing: string(missing)}
		e.logger.WithField("match_id", match.MatchID).Warn(oddsErr.Error())
		return LedgerEntry{
			MatchID:        match.MatchID,
			Date:           match.Date,
			Odds:           match.Odds,
			Stakes:         models.StakeDecision{},
			TrueOutcome:    match.TrueOutcome,
			BankrollBefore: before,
			BankrollAfter:  before,
			Flag:           FlagInvalidOdds,
		}, nil
	}

	prediction, err := e.predictor.Predict(ctx, match.Features)
	if err != nil {
		return LedgerEntry{}, &PredictionError{MatchID: match.MatchID, Err: err}
	}
	if err := prediction.Validate(); err != nil {
		return LedgerEntry{}, &PredictionError{MatchID: match.MatchID, Err: err}
	}

	stakes := sanitizeStakes(e.strategy.Stakes(prediction, match.Odds, state.Current))
	flag := FlagNone
	totalStake := stakes.Total()
	if totalStake > state.Current {
		e.events.LogStakeClamped(e.strategy.Name(), match.MatchID, totalStake, state.Current)
		stakes = models.StakeDecision{}
		totalStake = 0
		flag = FlagStakeClamped
	}

	payout := stakes[match.TrueOutcome] * match.Odds[match.TrueOutcome]
	state.Settle(totalStake, payout)

	return LedgerEntry{
		MatchID:        match.MatchID,
		Date:           match.Date,
		Prediction:     prediction,
		Odds:           match.Odds,
		Stakes:         stakes,
		TotalStake:     totalStake,
		Payout:         payout,
		TrueOutcome:    match.TrueOutcome,
		BankrollBefore: before,
		BankrollAfter:  state.Current,
		Flag:           flag,
	}, nil
}

// sanitizeStakes drops negative and NaN stakes from an untrusted decision
func sanitizeStakes(stakes models.StakeDecision) models.StakeDecision {
	clean := make(models.StakeDecision, len(models.Outcomes))
	for _, outcome := range models.Outcomes {
		stake := stakes[outcome]
		if stake > 0 && !math.IsNaN(stake) && !math.IsInf(stake, 0) {
			clean[outcome] = stake
		}
	}
	return clean
}

func validateOrdering(matches []*models.MatchRecord) error {
	for i := 1; i < len(matches); i++ {
		if !matches[i-1].Before(matches[i]) {
			return &OrderingError{MatchID: matches[i].MatchID, Position: i}
		}
	}
	return nil
}
