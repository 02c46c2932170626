package recorder

import "MarketPulse/internal/model"

// Recorder persists evaluation history for later analysis.
type Recorder interface {
	RecordEvaluation(ev *model.Evaluation) error
	Close() error
}
