package scoring

import (
	"github.com/wonny/cohorent/backend/internal/contracts"
	"github.com/wonny/cohorent/backend/internal/scoringconfig"
)

// StatusFor maps a rating onto its status label
func StatusFor(rating int, t scoringconfig.StatusThresholds) contracts.StatusLabel {
	switch {
	case rating >= t.Scale:
		return contracts.StatusScale
	case rating >= t.Optimize:
		return contracts.StatusOptimize
	case rating >= t.Test:
		return contracts.StatusTest
	default:
		return contracts.StatusRetire
	}
}
