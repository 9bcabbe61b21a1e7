// Package projectcode generates human-readable project codes of the form
// APX-YYMMDD-XXXXXX.
//
// Codes are random samples, not guaranteed unique. Callers persist them
// under a UNIQUE constraint and regenerate on collision.
package projectcode

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"
)

const (
	prefix     = "APX"
	alphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLen  = 6
	dateLayout = "060102"
)

var pattern = regexp.MustCompile(`^APX-\d{6}-[A-Z0-9]{6}$`)

// Valid reports whether code has the project code shape.
func Valid(code string) bool {
	return pattern.MatchString(code)
}

// Generator produces project codes.
type Generator struct {
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator using the wall clock and a randomly seeded source.
func New() *Generator {
	return &Generator{
		now: time.Now,
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewWithSource returns a Generator with an explicit clock and random source.
func NewWithSource(now func() time.Time, src rand.Source) *Generator {
	return &Generator{now: now, rng: rand.New(src)}
}

// Generate returns a new code stamped with the current UTC date.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(len(prefix) + 1 + len(dateLayout) + 1 + suffixLen)
	b.WriteString(prefix)
	b.WriteByte('-')
	b.WriteString(g.now().UTC().Format(dateLayout))
	b.WriteByte('-')

	g.mu.Lock()
	for i := 0; i < suffixLen; i++ {
		b.WriteByte(alphabet[g.rng.IntN(len(alphabet))])
	}
	g.mu.Unlock()

	return b.String()
}
