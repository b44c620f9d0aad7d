package salary

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/iwvelando/ratewise/pkg/tax"
)

// Strategy computes take-home pay for one jurisdiction.
type Strategy func(Input) (Result, error)

// Registry dispatches salary calculations by country code. It is safe for
// concurrent use.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	fallback   GenericConfig
}

// NewRegistry returns a registry with the built-in US and UK calculators.
// GB and UK both resolve to the UK calculator.
func NewRegistry() *Registry {
	r := &Registry{
		strategies: make(map[string]Strategy),
		fallback:   FallbackConfig,
	}
	r.Register("US", CalculateUS)
	r.Register("GB", CalculateUK)
	r.Alias("UK", "GB")
	return r
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Register installs or replaces the strategy for code.
func (r *Registry) Register(code string, strategy Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[normalizeCode(code)] = strategy
}

// Alias points alias at the strategy currently registered for code and
// reports whether code had one. Later changes to code are not followed.
func (r *Registry) Alias(alias, code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	strategy, ok := r.strategies[normalizeCode(code)]
	if !ok {
		return false
	}
	r.strategies[normalizeCode(alias)] = strategy
	return true
}

// RegisterGeneric installs a bracket-driven strategy for code after checking
// the bracket table.
func (r *Registry) RegisterGeneric(code string, cfg GenericConfig) error {
	if err := tax.ValidateBrackets(cfg.Brackets); err != nil {
		return fmt.Errorf("jurisdiction %s: %w", code, err)
	}
	normalized := normalizeCode(code)
	r.Register(normalized, func(in Input) (Result, error) {
		in.CountryCode = normalized
		return CalculateGeneric(in, cfg)
	})
	return nil
}

// SetFallback replaces the configuration used for unregistered codes.
func (r *Registry) SetFallback(cfg GenericConfig) error {
	if err := tax.ValidateBrackets(cfg.Brackets); err != nil {
		return fmt.Errorf("fallback jurisdiction: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = cfg
	return nil
}

// Lookup returns the strategy registered for code.
func (r *Registry) Lookup(code string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	strategy, ok := r.strategies[normalizeCode(code)]
	return strategy, ok
}

// Codes lists registered country codes in sorted order.
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.strategies))
	for code := range r.strategies {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Calculate dispatches on in.CountryCode, falling back to the generic
// calculator with the fallback configuration for unknown codes.
func (r *Registry) Calculate(in Input) (Result, error) {
	if strategy, ok := r.Lookup(in.CountryCode); ok {
		return strategy(in)
	}
	r.mu.RLock()
	fallback := r.fallback
	r.mu.RUnlock()
	return CalculateGeneric(in, fallback)
}
