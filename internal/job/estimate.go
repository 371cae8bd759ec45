package job

import (
	"time"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/domain/commonModels"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
)

// EstimateWindow grows with file size: a base delay plus a per-MiB share,
// widened by a fixed spread. High priority jobs get half the wait.
func EstimateWindow(sizeBytes int64, priority jobModel.Priority) commonModels.CompletionWindow {
	mib := float64(max(sizeBytes, 0)) / float64(1<<20)
	minWait := config.BackgroundBaseWindow + time.Duration(mib*float64(config.BackgroundWindowPerMiB))
	minWait = minWait.Round(time.Second)

	if priority == jobModel.PriorityHigh {
		minWait /= config.HighPriorityWindowRatio
	}
	return commonModels.CompletionWindow{
		Min: minWait,
		Max: minWait * config.BackgroundWindowSpread,
	}
}
