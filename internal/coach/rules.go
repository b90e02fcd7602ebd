package coach

import (
	"github.com/earlybird-app/earlybird/internal/profile"
	"github.com/earlybird-app/earlybird/internal/session"
)

// Rules is the offline advice: the cycle verdict as the headline and a tip
// picked from the weakest part of the night.
func Rules(sum *session.Summary, rating profile.Rating) Advice {
	adv := Advice{Headline: headline(sum), Source: SourceRules}

	switch {
	case sum.Quality == session.QualityInsufficient:
		adv.Tip = "This session was too short to score. Track a full night to see your stages."
	case sum.CompletedCycles < 4:
		adv.Tip = session.CycleVerdict(sum.CompletedCycles) + " Go to bed earlier so you can fit in at least four."
	case sum.Breakdown.Deep < 15:
		adv.Tip = "Deep sleep was light tonight. Keep the room cool and skip caffeine after noon."
	case sum.Breakdown.REM < 18:
		adv.Tip = "REM was short. Alcohol near bedtime suppresses it, and so does cutting the last cycle."
	case sum.Breakdown.Awake > 10:
		adv.Tip = "You spent a while awake. A dark, quiet room and a fixed bedtime help you drop off faster."
	case rating == profile.RatingPoor:
		adv.Tip = "The numbers look fine but you felt rough. Try waking one cycle earlier or later tomorrow."
	default:
		adv.Tip = "Keep the same bedtime and wake time, including weekends, to lock in this rhythm."
	}
	return adv
}

func headline(sum *session.Summary) string {
	switch sum.Quality {
	case session.QualityExcellent:
		return "Excellent night"
	case session.QualityGood:
		return "Good, restful night"
	case session.QualityFair:
		return "A fair night"
	case session.QualityPoor:
		return "A rough night"
	default:
		return "Short session"
	}
}
