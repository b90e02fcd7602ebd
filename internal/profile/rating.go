package profile

import (
	"fmt"
	"strings"
)

// Rating is the sleeper's own verdict on a night.
type Rating string

const (
	RatingPoor    Rating = "poor"
	RatingOkay    Rating = "okay"
	RatingGood    Rating = "good"
	RatingSkipped Rating = "skipped"
)

// Ratings lists the answerable ratings in display order.
var Ratings = []Rating{RatingPoor, RatingOkay, RatingGood}

// ParseRating accepts a rating name in any case. An empty string is a skip.
func ParseRating(s string) (Rating, error) {
	switch r := Rating(strings.ToLower(strings.TrimSpace(s))); r {
	case RatingPoor, RatingOkay, RatingGood, RatingSkipped:
		return r, nil
	case "":
		return RatingSkipped, nil
	default:
		return "", fmt.Errorf("unknown rating %q", s)
	}
}

// Label is the button text for r.
func (r Rating) Label() string {
	switch r {
	case RatingPoor:
		return "Poor"
	case RatingOkay:
		return "Okay"
	case RatingGood:
		return "Good"
	default:
		return "Skipped"
	}
}
