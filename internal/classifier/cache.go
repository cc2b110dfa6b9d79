package classifier

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fyrsmithlabs/lintfix/internal/decision"
)

type cacheKey struct {
	message  string
	language string
	linter   string
	ruleID   string
}

// decisionCache memoizes results until the next mutation of the underlying
// knowledge. A nil cache is valid and never hits.
type decisionCache struct {
	entries *lru.Cache[cacheKey, decision.Result]
	metrics *Metrics
}

func newDecisionCache(size int, metrics *Metrics) (*decisionCache, error) {
	if size <= 0 {
		return nil, nil
	}
	entries, err := lru.New[cacheKey, decision.Result](size)
	if err != nil {
		return nil, err
	}
	return &decisionCache{entries: entries, metrics: metrics}, nil
}

func (c *decisionCache) get(k cacheKey) (decision.Result, bool) {
	if c == nil {
		return decision.Result{}, false
	}
	r, ok := c.entries.Get(k)
	if ok {
		c.metrics.CacheHitsTotal.Inc()
	} else {
		c.metrics.CacheMissesTotal.Inc()
	}
	return r, ok
}

func (c *decisionCache) add(k cacheKey, r decision.Result) {
	if c == nil {
		return
	}
	c.entries.Add(k, r)
}

func (c *decisionCache) purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
	c.metrics.CachePurgesTotal.Inc()
}

func (c *decisionCache) len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
