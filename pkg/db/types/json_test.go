package dbtypes

import "testing"

func TestStringSliceRoundTrip(t *testing.T) {
	in := StringSlice{"RU", "UZ"}
	value, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out StringSlice
	if err := out.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(out) != 2 || out[0] != "RU" || out[1] != "UZ" {
		t.Fatalf("unexpected round trip result %v", out)
	}
	if !out.Contains("UZ") || out.Contains("EN") {
		t.Fatalf("contains misbehaved for %v", out)
	}
}

func TestStringSliceNil(t *testing.T) {
	var s StringSlice
	value, err := s.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != nil {
		t.Fatalf("nil slice should store NULL, got %v", value)
	}

	var out StringSlice
	if err := out.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil, got %v", out)
	}
}

func TestJSONMapRoundTrip(t *testing.T) {
	in := JSONMap{"telegram": "@someone", "floor": float64(3)}
	value, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var out JSONMap
	if err := out.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out["telegram"] != "@someone" {
		t.Fatalf("unexpected map %v", out)
	}
}
