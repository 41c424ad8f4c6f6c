package bitcoin

import (
	"context"
	"math"
	"strconv"

	"github.com/permavault/permavault-daemon/pkg/explorer"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultFeeTargetBlocks ...
	DefaultFeeTargetBlocks = 6
	// DefaultFeeRate is the fallback sat/vbyte rate.
	DefaultFeeRate = 6
	// MinFeeRate is the floor applied to any resolved rate.
	MinFeeRate = 2
)

// FeeEstimator is the subset of explorer.Service needed to resolve a rate.
type FeeEstimator interface {
	GetFeeEstimates(ctx context.Context) (explorer.FeeEstimates, error)
}

// FeeRatePolicy resolves a sat/vbyte rate from an estimator.
type FeeRatePolicy struct {
	TargetBlocks int
	Fallback     float64
	Min          float64
}

// DefaultFeeRatePolicy returns the policy with 6 blocks target, 6 sat/vbyte
// fallback and 2 sat/vbyte floor.
func DefaultFeeRatePolicy() FeeRatePolicy {
	return FeeRatePolicy{
		TargetBlocks: DefaultFeeTargetBlocks,
		Fallback:     DefaultFeeRate,
		Min:          MinFeeRate,
	}
}

// Resolve queries the estimator for the policy's target. It falls back to the
// policy's default if the estimator fails or the target is missing or not a
// positive number. The result is never lower than the policy's floor.
func (p FeeRatePolicy) Resolve(ctx context.Context, estimator FeeEstimator) float64 {
	rate := p.Fallback

	estimates, err := estimator.GetFeeEstimates(ctx)
	if err != nil {
		log.WithError(err).Warnf(
			"fee estimates unavailable, using default rate %v sat/vB", p.Fallback,
		)
	} else if r, ok := estimates[strconv.Itoa(p.TargetBlocks)]; ok && isValidRate(r) {
		rate = r
	} else {
		log.Warnf(
			"no usable fee estimate for %d blocks target, using default rate %v sat/vB",
			p.TargetBlocks, p.Fallback,
		)
	}

	return math.Max(rate, p.Min)
}

func isValidRate(r float64) bool {
	return r > 0 && !math.IsNaN(r) && !math.IsInf(r, 0)
}
