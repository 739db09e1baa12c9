package rosterly

import (
	"github.com/rs/zerolog"

	"github.com/rosterly/rosterly/pkg/match"
	"github.com/rosterly/rosterly/pkg/roster"
	"github.com/rosterly/rosterly/pkg/standardize"
)

// DefaultThreshold is the fuzzy similarity threshold used when the
// caller doesn't set one.
const DefaultThreshold = 90

// config holds the per-run settings assembled from options.
type config struct {
	caseInsensitiveNames bool
	mode                 match.Mode
	threshold            int
	compareFields        []roster.Field
	equivalences         standardize.Equivalences
	defaultYear          int
	logger               *zerolog.Logger
}

// defaultConfig returns the reference behavior: case-insensitive name
// matching, exact mode, every field compared.
func defaultConfig() *config {
	return &config{
		caseInsensitiveNames: true,
		mode:                 match.ModeExact,
		threshold:            DefaultThreshold,
		compareFields:        roster.CompareFields(),
	}
}

// Option is a function that configures a reconciliation run.
type Option func(*config) error

// WithCaseSensitiveNames disables the default case folding of names,
// so "John" and "john" no longer match.
func WithCaseSensitiveNames() Option {
	return func(c *config) error {
		c.caseInsensitiveNames = false
		return nil
	}
}

// WithMatchMode selects the matching strategy.
func WithMatchMode(mode match.Mode) Option {
	return func(c *config) error {
		c.mode = mode
		return nil
	}
}

// WithFuzzyMatching enables fuzzy mode with the given similarity
// threshold on the 0-100 scale.
func WithFuzzyMatching(threshold int) Option {
	return func(c *config) error {
		c.mode = match.ModeFuzzy
		c.threshold = threshold
		return nil
	}
}

// WithThreshold sets the fuzzy similarity threshold without changing
// the match mode. It has no effect in exact mode.
func WithThreshold(threshold int) Option {
	return func(c *config) error {
		c.threshold = threshold
		return nil
	}
}

// WithCompareFields restricts which fields are diffed on matched pairs.
func WithCompareFields(fields ...roster.Field) Option {
	return func(c *config) error {
		c.compareFields = fields
		return nil
	}
}

// WithEquivalences declares the room-type synonym groups applied while
// standardizing both sources.
func WithEquivalences(equiv standardize.Equivalences) Option {
	return func(c *config) error {
		c.equivalences = equiv
		return nil
	}
}

// WithDefaultYear sets the year assumed for dates written without one.
// Zero means the current year.
func WithDefaultYear(year int) Option {
	return func(c *config) error {
		c.defaultYear = year
		return nil
	}
}

// WithLogger sets the logger for the run, overriding any logger carried
// by the context.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
