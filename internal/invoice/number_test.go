package invoice

import (
	"regexp"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 7, 10, 30, 0, 0, time.UTC)
}

func TestReferenceFormatIsDateAnchored(t *testing.T) {
	gen := NewReferenceGenerator(fixedClock, NewRandomSource(1))

	re := regexp.MustCompile(`^INV-20250307-\d{3}$`)
	for i := 0; i < 50; i++ {
		ref := gen.Next(PrefixInvoice)
		if !re.MatchString(ref) {
			t.Fatalf("reference %q does not match fixed-width format", ref)
		}
	}
}

func TestReferencePrefixes(t *testing.T) {
	gen := NewReferenceGenerator(fixedClock, &CounterSource{})

	if got := gen.Next(PrefixInvoice); got != "INV-20250307-001" {
		t.Errorf("invoice ref = %q", got)
	}
	if got := gen.Next(PrefixOrder); got != "ORD-20250307-002" {
		t.Errorf("order ref = %q", got)
	}
}

func TestRandomSourceIsSeedDeterministic(t *testing.T) {
	a := NewReferenceGenerator(fixedClock, NewRandomSource(42))
	b := NewReferenceGenerator(fixedClock, NewRandomSource(42))

	for i := 0; i < 20; i++ {
		if ra, rb := a.Next(PrefixInvoice), b.Next(PrefixInvoice); ra != rb {
			t.Fatalf("iteration %d: %q != %q", i, ra, rb)
		}
	}
}

func TestCounterSourceNeverRepeats(t *testing.T) {
	gen := NewReferenceGenerator(fixedClock, &CounterSource{})

	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		ref := gen.Next(PrefixInvoice)
		if seen[ref] {
			t.Fatalf("duplicate reference %q", ref)
		}
		seen[ref] = true
	}
}
