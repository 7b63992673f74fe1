package service

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestInferUnitWeightKg(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Groundnut Oil 25L", "25"},
		{"Rice 50kg", "50"},
		{"Rice 50 kg Premium", "50"},
		{"Spice Mix 250g", "0.25"},
		{"Palm Oil 4.5L", "4.5"},
		{"Carton of Noodles", "0"},
	}
	for _, tc := range cases {
		got := InferUnitWeightKg(tc.name)
		want, _ := decimal.NewFromString(tc.want)
		if !got.Equal(want) {
			t.Fatalf("InferUnitWeightKg(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestEffectiveUnitWeightKgPrefersExplicit(t *testing.T) {
	explicit := decimal.NewFromInt(10)
	got := EffectiveUnitWeightKg(explicit, "Rice 50kg")
	if !got.Equal(explicit) {
		t.Fatalf("explicit weight must win, got %s", got)
	}

	got = EffectiveUnitWeightKg(decimal.Zero, "Rice 50kg")
	if !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected inferred weight 50, got %s", got)
	}
}
