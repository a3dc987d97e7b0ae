package feed

import (
	"math"

	"github.com/Diferti/swibee/internal/domain"
)

// ClassifyGesture converts a released drag into a discrete verdict. The
// metric is drag distance times release velocity: a deliberate fast flick and
// a deliberate far drag each clear the threshold on their own, while small
// jitters produce a product near zero and settle back. Direction comes from
// the velocity sign. Threshold units are offset-pixels times pixels/second
// (reference value 10000).
func ClassifyGesture(offsetX, velocityX, threshold float64) domain.Verdict {
	swipe := math.Abs(offsetX) * velocityX
	switch {
	case swipe < -threshold:
		return domain.VerdictLeft
	case swipe > threshold:
		return domain.VerdictRight
	default:
		return domain.VerdictNone
	}
}
