package models

import (
	"math"
	"testing"
)

func TestBuildersSetModeAndDefaults(t *testing.T) {
	q := FullText("timeout")
	if q.Mode != ModeFullText || q.Text != "timeout" || q.Limit != DefaultLimit {
		t.Errorf("FullText = %+v", q)
	}
	q = SemanticFromText("timeout")
	if q.Mode != ModeSemantic || q.Text != "timeout" {
		t.Errorf("SemanticFromText = %+v", q)
	}
	q = SemanticFromVector([]float32{1, 0})
	if q.Mode != ModeSemantic || len(q.Vector) != 2 {
		t.Errorf("SemanticFromVector = %+v", q)
	}
	q = Hybrid("timeout")
	if q.Mode != ModeHybrid || q.Rerank == nil {
		t.Errorf("Hybrid = %+v", q)
	}
}

func TestBuildersReturnCopies(t *testing.T) {
	base := Hybrid("timeout")
	limited := base.WithLimit(50).WithOffset(10).WithFilter("state = 'open'")
	if base.Limit != DefaultLimit || base.Offset != 0 || base.Filter != "" {
		t.Errorf("base mutated: %+v", base)
	}
	if limited.Limit != 50 || limited.Offset != 10 || limited.Filter != "state = 'open'" {
		t.Errorf("copy wrong: %+v", limited)
	}
}

func TestWithBoostsCopiesMap(t *testing.T) {
	boosts := map[string]float64{FieldTitle: 2.0}
	q := FullText("x").WithBoosts(boosts)
	boosts[FieldTitle] = 99
	if q.FieldBoosts[FieldTitle] != 2.0 {
		t.Errorf("boost map aliased: %v", q.FieldBoosts)
	}
}

func TestWithFieldsCopiesSlice(t *testing.T) {
	fields := []string{FieldTitle}
	q := FullText("x").WithFields(fields...)
	fields[0] = "mutated"
	if q.SearchFields[0] != FieldTitle {
		t.Errorf("fields slice aliased: %v", q.SearchFields)
	}
}

func TestStrategyValidate(t *testing.T) {
	valid := []RerankStrategy{
		RRF{K: 0}, RRF{K: DefaultRRFK},
		Linear{TextWeight: 0.7, VectorWeight: 0.3},
		Linear{}, TextOnly{}, VectorOnly{},
	}
	for _, s := range valid {
		if err := s.Validate(); err != nil {
			t.Errorf("%#v: unexpected error %v", s, err)
		}
	}

	invalid := []RerankStrategy{
		RRF{K: -1},
		RRF{K: math.NaN()},
		RRF{K: math.Inf(1)},
		Linear{TextWeight: -0.1},
		Linear{VectorWeight: math.NaN()},
		Linear{TextWeight: math.Inf(-1)},
	}
	for _, s := range invalid {
		if err := s.Validate(); err == nil {
			t.Errorf("%#v: expected validation error", s)
		}
	}
}

func TestItemTypeFromID(t *testing.T) {
	tests := []struct {
		id   string
		want ItemType
	}{
		{"issue:42", ItemTypeIssue},
		{"pr:17", ItemTypePullRequest},
		{"repo:3", ItemTypeRepository},
	}
	for _, tt := range tests {
		if got := ItemTypeFromID(tt.id); got != tt.want {
			t.Errorf("ItemTypeFromID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
