package service

import (
	"alcyxob/reptrack/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Secondary effect names, also used as metric labels.
const (
	effectLikeCounter    = "like_counter"
	effectCommentCounter = "comment_counter"
	effectNotification   = "notification"
)

// BestEffort is the outcome of a secondary effect that runs after the primary
// write of an operation has succeeded. Its failure never fails the operation.
type BestEffort struct {
	Effect string
	Err    error
}

func (b BestEffort) Failed() bool { return b.Err != nil }

// discard records a failed secondary effect and otherwise drops it.
func discard(log logrus.FieldLogger, m *metrics.Metrics, b BestEffort) {
	if !b.Failed() {
		return
	}
	log.WithError(b.Err).WithField("effect", b.Effect).Warn("Secondary effect failed")
	m.BestEffortFailed(b.Effect)
}
