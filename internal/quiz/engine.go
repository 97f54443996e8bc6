package quiz

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Engine bundles the difficulty adviser, quiz composer, scorer and dashboard
// aggregation over a Store. It holds no cross-request state beyond the
// shuffle source, which is mutex-guarded: handlers share one Engine across
// concurrent requests and *rand.Rand is not goroutine safe.
type Engine struct {
	store    Store
	settings *Settings

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewEngine(store Store, settings *Settings) *Engine {
	return NewSeededEngine(store, settings, time.Now().UnixNano())
}

// NewSeededEngine fixes the shuffle source, for deterministic selection in
// tests.
func NewSeededEngine(store Store, settings *Settings, seed int64) *Engine {
	return &Engine{
		store:    store,
		settings: settings,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// shuffleN runs one Fisher-Yates pass under the rng lock.
func (e *Engine) shuffleN(n int, swap func(i, j int)) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng.Shuffle(n, swap)
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
