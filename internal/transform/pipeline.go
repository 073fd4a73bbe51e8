package transform

import (
	"github.com/edulens/edulens/internal/frame"
	"github.com/edulens/edulens/pkg/logger"
)

// Processor fits the post-processing chain — correlation pruning, one-hot
// encoding, min-max scaling — on a training table. The fit is done once,
// on training data only; the holdout set sees the fitted parameters and
// never influences them.
type Processor struct {
	logger *logger.Logger
}

// Fitted is the frozen post-processing chain. Apply runs its three stages
// in fit order against any table with the training schema.
type Fitted struct {
	Pruner  *FittedPruner
	Encoder *FittedEncoder
	Scaler  *FittedScaler
}

// NewProcessor creates a post-processing fitter.
func NewProcessor(log *logger.Logger) *Processor {
	return &Processor{logger: log}
}

// Fit learns the chain from the training table and returns both the
// fitted chain and the transformed training table.
func (p *Processor) Fit(train *frame.Frame) (*Fitted, *frame.Frame, error) {
	pruner, err := FitPruner(train)
	if err != nil {
		return nil, nil, err
	}
	pruned, err := pruner.Apply(train)
	if err != nil {
		return nil, nil, err
	}
	if n := len(pruner.Dropped()); n > 0 {
		p.logger.WithField("columns", pruner.Dropped()).
			Infof("Pruned %d perfectly correlated column(s)", n)
	}

	encoder := FitEncoder(pruned)
	encoded, err := encoder.Apply(pruned)
	if err != nil {
		return nil, nil, err
	}

	scaler, err := FitScaler(encoded)
	if err != nil {
		return nil, nil, err
	}
	scaled, err := scaler.Apply(encoded)
	if err != nil {
		return nil, nil, err
	}

	p.logger.WithFields(map[string]interface{}{
		"rows":    scaled.NumRows(),
		"columns": scaled.NumCols(),
	}).Info("Fitted post-processing chain")

	return &Fitted{Pruner: pruner, Encoder: encoder, Scaler: scaler}, scaled, nil
}

// Apply runs the fitted chain against another table, typically the
// holdout split.
func (ft *Fitted) Apply(f *frame.Frame) (*frame.Frame, error) {
	pruned, err := ft.Pruner.Apply(f)
	if err != nil {
		return nil, err
	}
	encoded, err := ft.Encoder.Apply(pruned)
	if err != nil {
		return nil, err
	}
	return ft.Scaler.Apply(encoded)
}
