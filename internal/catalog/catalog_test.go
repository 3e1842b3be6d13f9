package catalog

import "testing"

func TestAgeBracketThresholds(t *testing.T) {
	t.Parallel()

	cases := []struct {
		age  int
		want Bracket
	}{
		{13, BracketTeen},
		{17, BracketTeen},
		{18, Bracket18to24},
		{24, Bracket18to24},
		{25, Bracket25to34},
		{34, Bracket25to34},
		{35, Bracket35to44},
		{44, Bracket35to44},
		{45, Bracket45Plus},
		{90, Bracket45Plus},
	}
	for _, c := range cases {
		if got := AgeBracket(c.age); got != c.want {
			t.Fatalf("AgeBracket(%d)=%q want %q", c.age, got, c.want)
		}
	}
}

func TestMoodsHasEight(t *testing.T) {
	t.Parallel()

	m := Moods()
	if len(m) != 8 {
		t.Fatalf("expected 8 moods, got %d", len(m))
	}
	m[0] = "changed"
	if Moods()[0] != "Happy" {
		t.Fatalf("Moods must return a copy")
	}
}

func TestGenresForReturnsCopy(t *testing.T) {
	t.Parallel()

	g := GenresFor(Bracket45Plus)
	if len(g) != 5 || g[0] != "Classic Rock" {
		t.Fatalf("unexpected genres: %v", g)
	}
	g[0] = "Noise"
	if GenresFor(Bracket45Plus)[0] != "Classic Rock" {
		t.Fatalf("GenresFor must return a copy")
	}
}

func TestDefaultGenres(t *testing.T) {
	t.Parallel()

	got := DefaultGenres(Bracket25to34)
	if len(got) != 2 || got[0] != "Pop" || got[1] != "Rock" {
		t.Fatalf("unexpected defaults: %v", got)
	}
}

func TestNormalizeMood(t *testing.T) {
	t.Parallel()

	if m, ok := NormalizeMood("  melancholic "); !ok || m != "Melancholic" {
		t.Fatalf("got %q ok=%v", m, ok)
	}
	if _, ok := NormalizeMood("Angry"); ok {
		t.Fatalf("expected unknown mood to be rejected")
	}
}

func TestKnownGenresUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, g := range KnownGenres() {
		if seen[g] {
			t.Fatalf("duplicate genre %q", g)
		}
		seen[g] = true
	}
	if !seen["K-pop"] || !seen["Folk"] {
		t.Fatalf("missing genres: %v", seen)
	}
}

func TestMatchGenre(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"rock", "Rock", true},
		{"R&B", "R&B", true},
		{"hip-hop", "Hip Hop", true},
		{"Electronica", "Electronic", true},
		{"polka", "", false},
		{"  ", "", false},
	}
	for _, c := range cases {
		got, ok := MatchGenre(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("MatchGenre(%q)=%q,%v want %q,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
