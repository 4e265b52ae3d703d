package record

import (
	"math/rand"
	"strings"
)

const (
	// DefaultCount is the number of records a single generation
	// produces.
	DefaultCount = 128

	// longNameUnit is repeated a random number of times to produce a
	// variable-length name. Long strings push the block size encoding
	// past one varint byte, which is what the append path needs
	// exercised.
	longNameUnit = "01234567890"
)

var (
	defaultNames  = []string{"Chris", "Divya", "Kevin", "Yulingfei"}
	defaultColors = []string{"red", "yellow", "orange"}
)

// Generator synthesizes User records from fixed value pools. It is
// deterministic for a given seed.
type Generator struct {
	names     []string
	colors    []string
	repeatMin int
	repeatMax int
	maxNumber int
	rng       *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithNames replaces the fixed name pool.
func WithNames(names []string) Option {
	return func(g *Generator) { g.names = names }
}

// WithColors replaces the favorite color pool.
func WithColors(colors []string) Option {
	return func(g *Generator) { g.colors = colors }
}

// WithRepeatRange bounds how many times the long-name unit is
// repeated, inclusive on both ends.
func WithRepeatRange(min, max int) Option {
	return func(g *Generator) {
		g.repeatMin = min
		g.repeatMax = max
	}
}

// NewGenerator creates a Generator seeded with the given value.
func NewGenerator(seed int64, opts ...Option) *Generator {
	g := &Generator{
		names:     defaultNames,
		colors:    defaultColors,
		repeatMin: 1,
		repeatMax: 1000,
		maxNumber: 1024,
		rng:       rand.New(rand.NewSource(seed)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Record synthesizes a single User. One extra slot past the name pool
// selects the variable-length name.
func (g *Generator) Record() User {
	var name string
	if i := g.rng.Intn(len(g.names) + 1); i < len(g.names) {
		name = g.names[i]
	} else {
		n := g.repeatMin + g.rng.Intn(g.repeatMax-g.repeatMin+1)
		name = strings.Repeat(longNameUnit, n)
	}

	number := g.rng.Intn(g.maxNumber + 1)
	color := g.colors[g.rng.Intn(len(g.colors))]

	return User{
		Name:           name,
		FavoriteNumber: &number,
		FavoriteColor:  &color,
	}
}

// Records synthesizes count records.
func (g *Generator) Records(count int) []User {
	records := make([]User, count)
	for i := range records {
		records[i] = g.Record()
	}
	return records
}
