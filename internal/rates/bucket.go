package rates

import (
	"math"

	"github.com/GregMSThompson/ratesheet-backend/internal/models"
)

type threshold struct {
	max    float64
	bucket models.Bucket
}

// Evaluated in order, first match wins.
var bucketThresholds = []threshold{
	{65, models.Under65},
	{70, models.Under70},
	{75, models.Under75},
	{80, models.Under80},
}

// LTV returns loanAmount as a percentage of propertyValue. ok is false when
// the ratio is not meaningful.
func LTV(loanAmount, propertyValue float64) (ltv float64, ok bool) {
	if !(propertyValue > 0) || !(loanAmount > 0) {
		return 0, false
	}
	if math.IsInf(propertyValue, 0) || math.IsInf(loanAmount, 0) {
		return 0, false
	}
	ltv = loanAmount * 100 / propertyValue
	if math.IsNaN(ltv) || math.IsInf(ltv, 0) {
		return 0, false
	}
	return ltv, true
}

// SelectBucket maps a loan to its pricing tier. Inputs that do not yield a
// usable LTV price as over80.
func SelectBucket(loanAmount, propertyValue float64) models.Bucket {
	ltv, ok := LTV(loanAmount, propertyValue)
	if !ok {
		return models.Over80
	}
	return BucketForLTV(ltv)
}

func BucketForLTV(ltv float64) models.Bucket {
	for _, t := range bucketThresholds {
		if ltv <= t.max {
			return t.bucket
		}
	}
	return models.Over80
}
