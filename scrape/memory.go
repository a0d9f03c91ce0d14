package scrape

import (
	"sync"
	"time"
)

// strategyEntry remembers the fetch strategy that worked for a domain.
type strategyEntry struct {
	strategy  string
	expiresAt time.Time
}

// StrategyMemory remembers, per domain, that the static attempt escalated so
// later requests go straight to rendering. Entries expire after the
// configured TTL and are pruned periodically.
type StrategyMemory struct {
	store sync.Map // domain (string) -> *strategyEntry
	ttl   time.Duration
	done  chan struct{}
}

// NewStrategyMemory creates a StrategyMemory with the given TTL and starts a
// background goroutine pruning expired entries every hour.
func NewStrategyMemory(ttl time.Duration) *StrategyMemory {
	m := &StrategyMemory{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Get returns the remembered strategy for a domain, or "" if unknown or expired.
func (m *StrategyMemory) Get(domain string) string {
	val, ok := m.store.Load(domain)
	if !ok {
		return ""
	}
	entry := val.(*strategyEntry)
	if time.Now().After(entry.expiresAt) {
		m.store.Delete(domain)
		return ""
	}
	return entry.strategy
}

// Set records the strategy that produced a sufficient result for a domain.
func (m *StrategyMemory) Set(domain, strategy string) {
	m.store.Store(domain, &strategyEntry{
		strategy:  strategy,
		expiresAt: time.Now().Add(m.ttl),
	})
}

// Delete removes the memory for a domain (e.g. after the remembered
// strategy stopped producing results).
func (m *StrategyMemory) Delete(domain string) {
	m.store.Delete(domain)
}

// Stop terminates the background cleanup goroutine.
func (m *StrategyMemory) Stop() {
	close(m.done)
}

func (m *StrategyMemory) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := time.Now()
			m.store.Range(func(key, value any) bool {
				entry := value.(*strategyEntry)
				if now.After(entry.expiresAt) {
					m.store.Delete(key)
				}
				return true
			})
		}
	}
}
