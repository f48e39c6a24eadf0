package ordernum

import (
	"regexp"
	"testing"
	"time"
)

func TestRandomSuffixGenerator_Format(t *testing.T) {
	gen := NewRandomSuffixGenerator("HS")
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	re := regexp.MustCompile(`^HS-20260101-\d{4}$`)
	for i := 0; i < 100; i++ {
		number := gen.Next(now)
		if !re.MatchString(number) {
			t.Fatalf("order number %q does not match %s", number, re)
		}
	}
}

// Collision-probability smoke test: numbers generated on distinct days are
// pairwise distinct regardless of the random suffix, because the date
// partition alone separates them.
func TestRandomSuffixGenerator_DistinctAcrossDays(t *testing.T) {
	gen := NewRandomSuffixGenerator("HS")
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		number := gen.Next(start.AddDate(0, 0, i))
		if seen[number] {
			t.Fatalf("duplicate order number generated: %s", number)
		}
		seen[number] = true
	}
}

// Within a single day only the 4-digit suffix varies; collisions are
// possible by design and the order store's unique constraint is the
// backstop. Here we only check the suffix actually varies.
func TestRandomSuffixGenerator_SuffixVaries(t *testing.T) {
	gen := NewRandomSuffixGenerator("HS")
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	suffixes := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		number := gen.Next(now)
		suffixes[number[len(number)-4:]] = true
	}

	if len(suffixes) < 2 {
		t.Fatalf("expected varying suffixes, got %d distinct over 1000 generations", len(suffixes))
	}
}

func TestRandomSuffixGenerator_CustomPrefix(t *testing.T) {
	gen := NewRandomSuffixGenerator("SOUQ")
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	number := gen.Next(now)
	want := regexp.MustCompile(`^SOUQ-20260315-\d{4}$`)
	if !want.MatchString(number) {
		t.Fatalf("order number %q does not match %s", number, want)
	}
}
