package driver

import (
	"github.com/freshe4qa/taiko-mono/core/types"
	"github.com/freshe4qa/taiko-mono/log"
	"github.com/freshe4qa/taiko-mono/metrics"
	"github.com/freshe4qa/taiko-mono/protocol"
)

// ProposerConfig controls the proposer collaborator.
type ProposerConfig struct {
	// Address is the account proposals are charged to.
	Address types.Address

	// MaxAttempts bounds how many times ProposeWithRetry re-submits after a
	// retryable rejection before giving up.
	MaxAttempts int
}

// DefaultProposerConfig returns a ProposerConfig with sensible defaults.
// The zero Address must still be filled in by the caller.
func DefaultProposerConfig() ProposerConfig {
	return ProposerConfig{
		MaxAttempts: 3,
	}
}

// Proposer submits block proposals to the engine on behalf of one account.
// WindowFull and InsufficientBalance rejections are expected operating
// conditions: the proposer counts them, reports them as retryable, and
// leaves the decision of when to retry to its caller, since freeing a slot
// or acquiring funds are external events.
type Proposer struct {
	engine *protocol.Engine
	clock  Clock
	config ProposerConfig

	logger   *log.Logger
	attempts *metrics.Counter
	accepted *metrics.Counter
	rejected *metrics.Counter
	backlog  *metrics.Gauge
}

// NewProposer creates a proposer bound to the given engine and clock.
// Metrics are registered in reg; pass metrics.DefaultRegistry outside tests.
func NewProposer(engine *protocol.Engine, clock Clock, config ProposerConfig, reg *metrics.Registry) *Proposer {
	return &Proposer{
		engine:   engine,
		clock:    clock,
		config:   config,
		logger:   log.Default().Module("proposer"),
		attempts: reg.Counter("proposer_attempts"),
		accepted: reg.Counter("proposer_accepted"),
		rejected: reg.Counter("proposer_rejected_retryable"),
		backlog:  reg.Gauge("window_congestion"),
	}
}

// ProposeOnce submits a single proposal at the clock's current time.
// Returns the new block ID on success. The second return reports whether a
// failure is retryable (window full or balance too low right now).
func (p *Proposer) ProposeOnce() (types.Hash, bool, error) {
	now := p.clock.Now()
	p.attempts.Inc()

	blockID, err := p.engine.ProposeBlock(p.config.Address, now)
	if err != nil {
		if protocol.IsRetryable(err) {
			p.rejected.Inc()
			p.logger.Debug("proposal rejected, will retry", "err", err, "time", now)
			return types.Hash{}, true, err
		}
		p.logger.Error("proposal failed", "err", err, "time", now)
		return types.Hash{}, false, err
	}

	p.backlog.Set(int64(p.engine.Congestion()))
	p.accepted.Inc()
	p.logger.Info("block proposed", "block", blockID, "time", now)
	return blockID, false, nil
}

// ProposeWithRetry submits a proposal, re-attempting immediately up to
// MaxAttempts times while the rejection stays retryable. Immediate retries
// only succeed if another actor freed a slot or funded the account in
// between; the method exists for drivers that interleave with a prover.
func (p *Proposer) ProposeWithRetry() (types.Hash, error) {
	var lastErr error
	for i := 0; i < p.config.MaxAttempts; i++ {
		blockID, retryable, err := p.ProposeOnce()
		if err == nil {
			return blockID, nil
		}
		if !retryable {
			return types.Hash{}, err
		}
		lastErr = err
	}
	return types.Hash{}, lastErr
}
