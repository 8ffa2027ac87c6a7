package invoice

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Reference prefixes for the two generated document numbers.
const (
	PrefixInvoice = "INV"
	PrefixOrder   = "ORD"
)

// NumberSource supplies the numeric suffix for generated references. The
// scheme is pluggable because the random variant does not guarantee
// uniqueness; callers that need collision-free numbers inject CounterSource.
type NumberSource interface {
	Next() int
}

// RandomSource draws a value in [0, 1000). This matches the historical
// date-plus-random scheme; two invoices generated the same day can collide.
type RandomSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewRandomSource(seed int64) *RandomSource {
	return &RandomSource{r: rand.New(rand.NewSource(seed))}
}

func (s *RandomSource) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(1000)
}

// CounterSource is a process-local monotonic counter. Suffixes grow past
// three digits instead of wrapping, so references never collide within one
// process lifetime.
type CounterSource struct {
	n atomic.Int64
}

func (s *CounterSource) Next() int {
	return int(s.n.Add(1))
}

// ReferenceGenerator produces date-anchored reference strings of the fixed
// form "{prefix}-{YYYYMMDD}-{NNN}". The suffix is zero-padded to at least
// three digits.
type ReferenceGenerator struct {
	now    func() time.Time
	source NumberSource
}

func NewReferenceGenerator(now func() time.Time, source NumberSource) *ReferenceGenerator {
	if now == nil {
		now = time.Now
	}
	if source == nil {
		source = NewRandomSource(time.Now().UnixNano())
	}
	return &ReferenceGenerator{now: now, source: source}
}

func (g *ReferenceGenerator) Next(prefix string) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, g.now().Format("20060102"), g.source.Next())
}
