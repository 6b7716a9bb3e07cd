package resolver

import (
	"fmt"

	"github.com/mwantia/sizefs/content"
	"github.com/mwantia/sizefs/size"
)

// DefaultSeed keys the random patterns unless WithSeed is used.
const DefaultSeed = "sizefs"

type Option func(*options) error

type options struct {
	seed     []byte
	units    *size.Units
	fallback *content.Pattern
	rules    []pendingRule
}

// pendingRule is applied once the seed is known.
type pendingRule struct {
	name    string
	pattern *content.Pattern
	expr    string
}

// WithUnits replaces the unit table used for filenames (JEDEC by default).
func WithUnits(units *size.Units) Option {
	return func(o *options) error {
		if units == nil {
			return fmt.Errorf("resolver: unit table cannot be nil")
		}
		o.units = units
		return nil
	}
}

// WithRule adds a directory rule or replaces the rule with the same name.
func WithRule(name string, pattern content.Pattern) Option {
	return func(o *options) error {
		if err := validateRuleName(name); err != nil {
			return err
		}
		o.rules = append(o.rules, pendingRule{name: name, pattern: &pattern})
		return nil
	}
}

// WithRuleExpr is like WithRule, but parses the pattern with content.ParsePattern
// using the resolver seed.
func WithRuleExpr(name, expr string) Option {
	return func(o *options) error {
		if err := validateRuleName(name); err != nil {
			return err
		}
		o.rules = append(o.rules, pendingRule{name: name, expr: expr})
		return nil
	}
}

// WithFallback sets the pattern of files without a recognised directory.
func WithFallback(pattern content.Pattern) Option {
	return func(o *options) error {
		o.fallback = &pattern
		return nil
	}
}

// WithSeed sets the seed of every random pattern built by the resolver.
func WithSeed(seed []byte) Option {
	return func(o *options) error {
		o.seed = append([]byte(nil), seed...)
		return nil
	}
}
