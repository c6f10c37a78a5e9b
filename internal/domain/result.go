package domain

import "fmt"

// Variant identifies one kind of screening test. Its string form is the
// name of the table holding results of that kind.
type Variant string

// Possible test variants, in the order the per-variant breakdown reports them.
const (
	VariantVisualAcuity   Variant = "visual_acuity"
	VariantColorVision    Variant = "color_vision"
	VariantContrastVision Variant = "contrast_vision"
	VariantBlurCheck      Variant = "blur_check"
	VariantWatchDot       Variant = "watch_dot"
)

// Variants lists every variant in reporting order.
var Variants = []Variant{
	VariantVisualAcuity,
	VariantColorVision,
	VariantContrastVision,
	VariantBlurCheck,
	VariantWatchDot,
}

// IsValid reports whether v names one of the known variants.
func (v Variant) IsValid() bool {
	for _, known := range Variants {
		if v == known {
			return true
		}
	}
	return false
}

// Scored reports whether results of this variant share the
// score/incorrect_answers shape.
func (v Variant) Scored() bool {
	return v == VariantContrastVision || v == VariantBlurCheck || v == VariantWatchDot
}

// Result is implemented by every test result that can be appended to its
// variant table.
type Result interface {
	Variant() Variant
	Owner() int64
}

// VisualAcuityResult records the highest Landolt C level reached per eye
// and the wrong answers given on the way there.
type VisualAcuityResult struct {
	ID                int64  `json:"test_id"`
	UserID            int64  `json:"user_id"`
	RightEyeMaxLevel  int    `json:"right_eye_max_level"`
	RightEyeIncorrect int    `json:"right_eye_incorrect"`
	LeftEyeMaxLevel   int    `json:"left_eye_max_level"`
	LeftEyeIncorrect  int    `json:"left_eye_incorrect"`
	Feedback          string `json:"feedback"`
}

// Variant implements Result.
func (r *VisualAcuityResult) Variant() Variant { return VariantVisualAcuity }

// Owner implements Result.
func (r *VisualAcuityResult) Owner() int64 { return r.UserID }

// ColorVisionResult records the plate answers of a color vision test.
type ColorVisionResult struct {
	ID               int64  `json:"test_id"`
	UserID           int64  `json:"user_id"`
	CorrectAnswers   int    `json:"correct_answers"`
	IncorrectAnswers int    `json:"incorrect_answers"`
	Feedback         string `json:"feedback"`
}

// Variant implements Result.
func (r *ColorVisionResult) Variant() Variant { return VariantColorVision }

// Owner implements Result.
func (r *ColorVisionResult) Owner() int64 { return r.UserID }

// ScoredResult is the shared shape of contrast vision, blur check and
// watch dot results. Kind selects the table.
type ScoredResult struct {
	ID               int64   `json:"test_id"`
	Kind             Variant `json:"variant"`
	UserID           int64   `json:"user_id"`
	Score            int     `json:"score"`
	IncorrectAnswers int     `json:"incorrect_answers"`
	Feedback         string  `json:"feedback"`
}

// NewScoredResult builds a ScoredResult, rejecting variants that do not
// use the score shape.
func NewScoredResult(kind Variant, userID int64, score, incorrect int, feedback string) (*ScoredResult, error) {
	if !kind.Scored() {
		return nil, fmt.Errorf("%w: %q is not a scored variant", ErrUnknownVariant, kind)
	}
	return &ScoredResult{
		Kind:             kind,
		UserID:           userID,
		Score:            score,
		IncorrectAnswers: incorrect,
		Feedback:         feedback,
	}, nil
}

// Variant implements Result.
func (r *ScoredResult) Variant() Variant { return r.Kind }

// Owner implements Result.
func (r *ScoredResult) Owner() int64 { return r.UserID }

// TestCounts maps a variant to the number of results a user has for it.
type TestCounts map[Variant]int

// Total sums the counts of every variant.
func (c TestCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
