package model

import (
	"errors"
	"fmt"
)

// Basket is a named, fixed set of symbols reported together.
type Basket struct {
	Name     string
	Symbols  []string
	LeaderBy LeaderKey
}

// CohortDef filters a basket down to instruments priced at or above Floor.
type CohortDef struct {
	Name   string
	Basket string
	Floor  float64
}

// ScoreFactor fills one scorecard slot.
type ScoreFactor struct {
	Name     string
	Symbol   string
	Polarity Polarity
}

// RotationDef pits one growth instrument against defensive alternatives.
type RotationDef struct {
	Growth    string
	Defensive []string
}

// ScorecardSize is the number of factors a scorecard must carry.
const ScorecardSize = 4

// Universe is one dashboard variant: names, baskets and the derived readings it wants.
type Universe struct {
	Names     map[string]string
	Baskets   []Basket
	Benchmark string
	Cohorts   []CohortDef
	Scorecard []ScoreFactor
	Rotation  *RotationDef
}

// DisplayName falls back to the symbol when no name is configured.
func (u *Universe) DisplayName(symbol string) string {
	if n, ok := u.Names[symbol]; ok && n != "" {
		return n
	}
	return symbol
}

// Basket looks up a basket by name.
func (u *Universe) Basket(name string) (Basket, bool) {
	for _, b := range u.Baskets {
		if b.Name == name {
			return b, true
		}
	}
	return Basket{}, false
}

// Symbols lists every symbol the universe references, deduplicated, in declaration order.
func (u *Universe) Symbols() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, b := range u.Baskets {
		for _, s := range b.Symbols {
			add(s)
		}
	}
	add(u.Benchmark)
	for _, f := range u.Scorecard {
		add(f.Symbol)
	}
	if u.Rotation != nil {
		add(u.Rotation.Growth)
		for _, s := range u.Rotation.Defensive {
			add(s)
		}
	}
	return out
}

// Validate rejects malformed definitions. These are configuration mistakes, not data problems.
func (u *Universe) Validate() error {
	if len(u.Baskets) == 0 {
		return errors.New("universe: at least one basket is required")
	}
	names := make(map[string]struct{}, len(u.Baskets))
	for _, b := range u.Baskets {
		if b.Name == "" {
			return errors.New("universe: basket name is required")
		}
		if _, dup := names[b.Name]; dup {
			return fmt.Errorf("universe: duplicate basket %q", b.Name)
		}
		names[b.Name] = struct{}{}
		if len(b.Symbols) == 0 {
			return fmt.Errorf("universe: basket %q references no symbols", b.Name)
		}
		switch b.LeaderBy {
		case "", LeaderByBias, LeaderByPrice, LeaderByMomentum, LeaderByScore:
		default:
			return fmt.Errorf("universe: basket %q has unknown leader key %q", b.Name, b.LeaderBy)
		}
	}
	if u.Benchmark == "" {
		return errors.New("universe: benchmark is required")
	}
	for _, c := range u.Cohorts {
		if _, ok := names[c.Basket]; !ok {
			return fmt.Errorf("universe: cohort %q references unknown basket %q", c.Name, c.Basket)
		}
	}
	if len(u.Scorecard) > 0 {
		if len(u.Scorecard) != ScorecardSize {
			return fmt.Errorf("universe: scorecard needs exactly %d factors, got %d", ScorecardSize, len(u.Scorecard))
		}
		for _, f := range u.Scorecard {
			if f.Symbol == "" {
				return fmt.Errorf("universe: scorecard factor %q has no symbol", f.Name)
			}
			if f.Polarity != PolarityNormal && f.Polarity != PolarityInverted {
				return fmt.Errorf("universe: scorecard factor %q has unknown polarity %q", f.Name, f.Polarity)
			}
		}
	}
	if u.Rotation != nil {
		if u.Rotation.Growth == "" {
			return errors.New("universe: rotation growth symbol is required")
		}
		if len(u.Rotation.Defensive) == 0 {
			return errors.New("universe: rotation needs at least one defensive symbol")
		}
	}
	return nil
}
