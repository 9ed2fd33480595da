// math/heading_test.go
// Copyright(c) 2024-2026 judy contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import (
	"testing"
)

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		h        float32
		expected float32
	}{
		{0, 0},
		{360, 0},
		{720, 0},
		{90, 90},
		{-90, 270},
		{-360, 0},
		{450, 90},
		{359.5, 359.5},
		{-0.5, 359.5},
	}
	for _, test := range tests {
		if nh := NormalizeHeading(test.h); nh != test.expected {
			t.Errorf("NormalizeHeading(%g) = %g, expected %g", test.h, nh, test.expected)
		}
	}
}

func TestHeadingDifference(t *testing.T) {
	tests := []struct {
		a, b     float32
		expected float32
	}{
		{0, 90, 90},
		{90, 0, 90},
		{350, 10, 20},
		{10, 350, 20},
		{180, 180, 0},
		{0, 180, 180},
		{270, 90, 180},
	}
	for _, test := range tests {
		if d := HeadingDifference(test.a, test.b); d != test.expected {
			t.Errorf("HeadingDifference(%g, %g) = %g, expected %g", test.a, test.b, d, test.expected)
		}
	}
}

func TestHeadingSignedTurn(t *testing.T) {
	tests := []struct {
		name     string
		cur      float32
		target   float32
		expected float32
	}{
		{"no turn", 90, 90, 0},
		{"right 90", 0, 90, 90},
		{"left 90", 90, 0, -90},
		{"right across north", 350, 10, 20},
		{"left across north", 10, 350, -20},
		{"right 179", 0, 179, 179},
		{"left 179", 0, 181, -179},
	}
	for _, test := range tests {
		turn := HeadingSignedTurn(test.cur, test.target)
		if Abs(turn-test.expected) > 0.001 {
			t.Errorf("%s: HeadingSignedTurn(%g, %g) = %g, expected %g", test.name,
				test.cur, test.target, turn, test.expected)
		}
	}
}
