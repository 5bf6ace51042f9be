package driver

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/event"

	"github.com/freshe4qa/taiko-mono/core/types"
	"github.com/freshe4qa/taiko-mono/log"
	"github.com/freshe4qa/taiko-mono/metrics"
	"github.com/freshe4qa/taiko-mono/protocol"
)

// ProofEvent is the proof-acceptance signal consumed by the prover driver:
// an opaque upstream capability has accepted a validity proof for BlockID,
// submitted by Prover, at Time.
type ProofEvent struct {
	BlockID types.Hash
	Prover  types.Address
	Time    uint64
}

// ProofFeed broadcasts accepted proofs to subscribers. It wraps an
// event.Feed so the proof source and the prover driver stay decoupled.
type ProofFeed struct {
	feed event.Feed
}

// Subscribe registers ch to receive future proof events.
func (f *ProofFeed) Subscribe(ch chan<- ProofEvent) event.Subscription {
	return f.feed.Subscribe(ch)
}

// Send broadcasts ev to all subscribers and returns the number of
// subscribers it was delivered to.
func (f *ProofFeed) Send(ev ProofEvent) int {
	return f.feed.Send(ev)
}

// Prover reacts to proof-acceptance events by submitting them to the
// engine, one synchronous engine call per observed event. The engine's
// determinism is untouched: the prover is pure plumbing between the event
// source and ProveBlock.
type Prover struct {
	engine *protocol.Engine

	logger    *log.Logger
	submitted *metrics.Counter
	unknown   *metrics.Counter

	mu   sync.Mutex
	quit chan struct{}
	done sync.WaitGroup
}

// NewProver creates a prover bound to the given engine. Metrics are
// registered in reg; pass metrics.DefaultRegistry outside tests.
func NewProver(engine *protocol.Engine, reg *metrics.Registry) *Prover {
	return &Prover{
		engine:    engine,
		logger:    log.Default().Module("prover"),
		submitted: reg.Counter("prover_proofs_submitted"),
		unknown:   reg.Counter("prover_unknown_block"),
	}
}

// HandleProof applies one accepted proof to the engine. An ErrUnknownBlock
// result means the proof referenced a block that was never proposed or was
// already proven; it is counted and surfaced, never silently swallowed.
// Other engine failures are surfaced without touching the unknown-block
// counter.
func (p *Prover) HandleProof(ev ProofEvent) error {
	err := p.engine.ProveBlock(ev.BlockID, ev.Prover, ev.Time)
	if err != nil {
		if errors.Is(err, protocol.ErrUnknownBlock) {
			p.unknown.Inc()
		}
		p.logger.Warn("proof rejected", "block", ev.BlockID, "err", err)
		return err
	}

	p.submitted.Inc()
	p.logger.Info("block proven", "block", ev.BlockID, "prover", ev.Prover, "time", ev.Time)
	return nil
}

// Start subscribes to the feed and processes events until Stop is called.
// Events arriving after Stop are dropped by the unsubscribe.
func (p *Prover) Start(feed *ProofFeed) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quit != nil {
		return // already running
	}
	p.quit = make(chan struct{})

	ch := make(chan ProofEvent, 16)
	sub := feed.Subscribe(ch)

	p.done.Add(1)
	go func() {
		defer p.done.Done()
		defer sub.Unsubscribe()
		for {
			select {
			case ev := <-ch:
				p.HandleProof(ev)
			case <-p.quit:
				return
			case <-sub.Err():
				return
			}
		}
	}()
}

// Stop terminates the event loop and waits for it to drain.
func (p *Prover) Stop() {
	p.mu.Lock()
	if p.quit == nil {
		p.mu.Unlock()
		return
	}
	close(p.quit)
	p.quit = nil
	p.mu.Unlock()
	p.done.Wait()
}
