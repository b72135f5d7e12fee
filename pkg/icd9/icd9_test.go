package icd9

import (
	"math"
	"testing"
)

func TestCategory(t *testing.T) {
	tcs := []struct {
		code string
		want string
	}{
		{"250", Diabetes},
		{"250.83", Diabetes},
		{"245", Endocrine},
		{"279.9", Endocrine},
		{"?", Unknown},
		{"", Unknown},
		{"NA", Unknown},
		{"house", Other},
		{"V57", Other},
		{"E909", Other},
		{"805.3", "Injury and Poisoning"},
		{"008", "Infectious and Parasitic Diseases"},
		{"428", "Diseases of the Circulatory System"},
		{"786", Other},
		{"0", Other},
		{"1.2.3", Other},
		{".5", Other},
	}

	for _, tc := range tcs {
		t.Run(tc.code, func(t *testing.T) {
			if got := Category(tc.code); got != tc.want {
				t.Errorf("Category(%q) = %q, want %q", tc.code, got, tc.want)
			}
		})
	}
}

func TestCategoryOf(t *testing.T) {
	tcs := []struct {
		code float64
		want string
	}{
		{250, Diabetes},
		{245, Endocrine},
		{805.3, "Injury and Poisoning"},
		{1000, Other},
		{math.NaN(), Unknown},
	}

	for _, tc := range tcs {
		if got := CategoryOf(tc.code); got != tc.want {
			t.Errorf("CategoryOf(%v) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestLabels(t *testing.T) {
	got := labels()
	if len(got) != 18 {
		t.Fatalf("got %d labels, want 16 ranges plus Other and Unknown", len(got))
	}
	seen := make(map[string]bool)
	for _, l := range got {
		if seen[l] {
			t.Errorf("duplicate label %q", l)
		}
		seen[l] = true
	}
}
