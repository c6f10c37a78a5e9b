package domain

import (
	"errors"
	"testing"
)

func TestVariantIsValid(t *testing.T) {
	for _, v := range Variants {
		if !v.IsValid() {
			t.Errorf("Expected %s to be valid", v)
		}
	}

	if Variant("hearing").IsValid() {
		t.Error("Expected unknown variant to be invalid")
	}
}

func TestVariantScored(t *testing.T) {
	tests := []struct {
		variant Variant
		scored  bool
	}{
		{VariantVisualAcuity, false},
		{VariantColorVision, false},
		{VariantContrastVision, true},
		{VariantBlurCheck, true},
		{VariantWatchDot, true},
	}

	for _, tt := range tests {
		if got := tt.variant.Scored(); got != tt.scored {
			t.Errorf("%s.Scored() = %v, want %v", tt.variant, got, tt.scored)
		}
	}
}

func TestNewScoredResult(t *testing.T) {
	r, err := NewScoredResult(VariantBlurCheck, 7, 12, 3, "Good")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if r.Variant() != VariantBlurCheck || r.Owner() != 7 {
		t.Errorf("Unexpected result %+v", r)
	}

	_, err = NewScoredResult(VariantColorVision, 7, 1, 1, "")
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("Expected ErrUnknownVariant, got %v", err)
	}
}

func TestResultVariants(t *testing.T) {
	results := map[Variant]Result{
		VariantVisualAcuity: &VisualAcuityResult{UserID: 1},
		VariantColorVision:  &ColorVisionResult{UserID: 1},
		VariantWatchDot:     &ScoredResult{Kind: VariantWatchDot, UserID: 1},
	}

	for want, r := range results {
		if r.Variant() != want {
			t.Errorf("Expected variant %s, got %s", want, r.Variant())
		}
		if r.Owner() != 1 {
			t.Errorf("Expected owner 1, got %d", r.Owner())
		}
	}
}

func TestTestCountsTotal(t *testing.T) {
	counts := TestCounts{
		VariantVisualAcuity: 2,
		VariantBlurCheck:    3,
		VariantWatchDot:     0,
	}
	if got := counts.Total(); got != 5 {
		t.Errorf("Total() = %d, want 5", got)
	}

	if got := (TestCounts{}).Total(); got != 0 {
		t.Errorf("Total() of empty counts = %d, want 0", got)
	}
}
