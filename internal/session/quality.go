package session

import (
	"math"

	"github.com/earlybird-app/earlybird/internal/stage"
)

// Quality is a coarse sleep quality band.
type Quality string

const (
	QualityInsufficient Quality = "insufficient_data"
	QualityPoor         Quality = "poor"
	QualityFair         Quality = "fair"
	QualityGood         Quality = "good"
	QualityExcellent    Quality = "excellent"
)

// Label is the human-readable band name.
func (q Quality) Label() string {
	switch q {
	case QualityExcellent:
		return "Excellent"
	case QualityGood:
		return "Good"
	case QualityFair:
		return "Fair"
	case QualityPoor:
		return "Poor"
	default:
		return "Not enough data"
	}
}

// MinScoredSeconds is the shortest session that gets a quality score.
const MinScoredSeconds = 10 * 60

type band struct {
	quality          Quality
	floor            float64 // deep+REM share above which the band applies
	ceil             float64 // share at which the score saturates
	scoreLo, scoreHi float64
}

// Ordered best first.
var bands = []band{
	{QualityExcellent, 40, 60, 90, 100},
	{QualityGood, 30, 40, 75, 89},
	{QualityFair, 20, 30, 60, 74},
}

var poorBand = band{QualityPoor, 0, 20, 30, 59}

// Score rates a night from its deep+REM share. Within a band the score
// grows linearly with the share.
func Score(elapsed int64, b stage.Breakdown) (int, Quality) {
	if elapsed < MinScoredSeconds {
		return 0, QualityInsufficient
	}
	share := b.DeepREM()
	for _, bd := range bands {
		if share > bd.floor {
			return bd.score(share), bd.quality
		}
	}
	return poorBand.score(share), poorBand.quality
}

func (bd band) score(share float64) int {
	frac := (share - bd.floor) / (bd.ceil - bd.floor)
	frac = math.Max(0, math.Min(1, frac))
	return int(math.Round(bd.scoreLo + frac*(bd.scoreHi-bd.scoreLo)))
}

// CycleVerdict describes how rested a number of completed cycles leaves you.
func CycleVerdict(cycles int) string {
	switch {
	case cycles >= 5:
		return "Excellent! You completed five or more full sleep cycles."
	case cycles == 4:
		return "Good. Four full cycles is a solid night."
	case cycles == 3:
		return "Fair. Three cycles will get you through, but aim for more."
	default:
		return "You may not feel fully rested. Try to fit in more complete cycles."
	}
}
