// Package posting converts business events into balanced, atomic batches
// of journal legs plus the matching record updates. Every operation either
// returns a complete batch or a typed error; nothing is written here.
package posting

import (
	"time"

	"github.com/google/uuid"
	"github.com/loomworks/tradeledger/internal/ledger"
)

type Engine struct {
	chart *ledger.Chart
	now   func() time.Time
	newID func() string
}

func NewEngine(chart *ledger.Chart) *Engine {
	return &Engine{
		chart: chart,
		now:   time.Now,
		newID: func() string { return uuid.Must(uuid.NewV7()).String() },
	}
}

// WithNow overrides the clock, for tests.
func (e *Engine) WithNow(now func() time.Time) {
	if now != nil {
		e.now = now
	}
}

// WithIDs overrides leg-ID generation, for tests.
func (e *Engine) WithIDs(newID func() string) {
	if newID != nil {
		e.newID = newID
	}
}

func (e *Engine) Chart() *ledger.Chart { return e.chart }
