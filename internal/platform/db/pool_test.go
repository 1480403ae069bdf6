package db

import "testing"

func TestClampConns(t *testing.T) {
	cases := []struct {
		name             string
		maxIn, minIn     int32
		maxWant, minWant int32
	}{
		{"configured values kept", 20, 5, 20, 5},
		{"zero max falls back", 0, 0, 20, 1},
		{"negative max falls back", -1, 2, 20, 2},
		{"min above max clamped", 10, 50, 10, 1},
		{"zero min clamped", 10, 0, 10, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			max, min := clampConns(tc.maxIn, tc.minIn)
			if max != tc.maxWant || min != tc.minWant {
				t.Errorf("clampConns(%d, %d) = (%d, %d), want (%d, %d)",
					tc.maxIn, tc.minIn, max, min, tc.maxWant, tc.minWant)
			}
		})
	}
}
