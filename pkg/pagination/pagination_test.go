package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit should default, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("negative limit should default, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("oversized limit should cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("valid limit should pass through, got %d", got)
	}
}

func TestNormalizeParams(t *testing.T) {
	p := Params{Limit: -1, Offset: -10}.Normalize()
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Fatalf("unexpected normalized params %+v", p)
	}
}
