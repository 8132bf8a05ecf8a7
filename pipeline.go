package main

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long the orchestrator waits after the last
// configuration change before starting a generation cycle.
const DefaultDebounce = 500 * time.Millisecond

// MeshPair is one committed generation result: both solids, the
// heightmap they were displaced from, and the config snapshot that
// produced them. A pair is immutable once committed.
type MeshPair struct {
	Positive    *Mesh
	Negative    *Mesh
	Heightmap   *Heightmap
	Config      Config
	GeneratedAt time.Time
}

// Generate runs one full cycle synchronously: rasterize the pattern,
// then build and displace the positive (pattern raised at the base
// radius) and the negative (pattern engraved at base radius + depth, so
// the positive nests inside with zero gap). The context is checked
// between stages; a cancelled cycle returns without a pair.
func Generate(ctx context.Context, cfg Config) (*MeshPair, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()

	hm, err := Rasterize(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pos := BuildCylinder(cfg.Radius, cfg.Height)
	Displace(pos, hm, cfg.Depth, shellRadiusFactor*cfg.Radius)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	negRadius := cfg.Radius + cfg.Depth
	neg := BuildCylinder(negRadius, cfg.Height)
	Displace(neg, hm, -cfg.Depth, shellRadiusFactor*negRadius)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &MeshPair{
		Positive:    pos,
		Negative:    neg,
		Heightmap:   hm,
		Config:      cfg,
		GeneratedAt: time.Now(),
	}, nil
}

// Pipeline debounces configuration changes and runs generation cycles,
// committing results atomically. Every Update gets a new cycle id; a
// cycle only commits if it is still the latest when it finishes, so a
// stale in-flight cycle can never overwrite a newer result or produce a
// mixed pair.
type Pipeline struct {
	debounce time.Duration

	// OnCommit and OnError are invoked outside the lock after a cycle
	// commits or fails. Set them before the first Update.
	OnCommit func(*MeshPair)
	OnError  func(error)

	mu        sync.Mutex
	cycle     uint64
	busy      bool
	timer     *time.Timer
	cancel    context.CancelFunc
	committed *MeshPair
}

func NewPipeline(debounce time.Duration) *Pipeline {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Pipeline{debounce: debounce}
}

// Update observes a configuration change: it marks the pipeline busy,
// cancels any in-flight cycle, and restarts the debounce timer. Only
// the most recent change survives the debounce window.
func (p *Pipeline) Update(cfg Config) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cycle++
	id := p.cycle
	p.busy = true

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.debounce, func() {
		p.run(id, cfg)
	})
}

func (p *Pipeline) run(id uint64, cfg Config) {
	p.mu.Lock()
	if id != p.cycle {
		// superseded during the debounce window
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.mu.Unlock()

	pair, err := Generate(ctx, cfg)

	p.mu.Lock()
	if id != p.cycle {
		// a newer change owns the busy flag and the commit slot now;
		// discard everything this cycle built
		p.mu.Unlock()
		return
	}
	p.cancel = nil
	p.busy = false
	if err != nil {
		// previous committed pair stays visible
		onError := p.OnError
		p.mu.Unlock()
		if onError != nil {
			onError(err)
		}
		return
	}
	p.committed = pair
	onCommit := p.OnCommit
	p.mu.Unlock()

	if onCommit != nil {
		onCommit(pair)
	}
}

// Busy reports whether a change has been observed that has not yet
// committed (or been superseded and recommitted).
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}

// Committed returns the most recently committed pair, or nil if no
// cycle has completed yet. The pair is replaced on commit, never
// mutated, so callers may read it without further synchronization.
func (p *Pipeline) Committed() *MeshPair {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.committed
}
