package host

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Token cost of each host call
const (
	TokenCostWatch       = 100
	TokenCostReaction    = 30
	TokenCostSendMessage = 10
)

const DefaultMaxTokens = 500

// guildTokens keeps one bucket per guild. A bucket starts full and refills
// its whole capacity over one minute.
type guildTokens struct {
	maxTokens int
	now       func() time.Time
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
}

func newGuildTokens(maxTokens int) *guildTokens {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &guildTokens{
		maxTokens: maxTokens,
		now:       time.Now,
		limiters:  make(map[string]*rate.Limiter),
	}
}

// spend takes cost tokens from the guild's bucket and reports whether they were available
func (g *guildTokens) spend(guildID string, cost int) bool {
	g.mu.Lock()
	limiter, ok := g.limiters[guildID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(g.maxTokens)/60), g.maxTokens)
		g.limiters[guildID] = limiter
	}
	now := g.now()
	g.mu.Unlock()

	return limiter.AllowN(now, cost)
}
