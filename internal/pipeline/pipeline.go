// Package pipeline turns a PredictionRequest into model outputs:
// validate, assemble, infer, shape. Each stage returns its own error type.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"predictd/internal/model"
	"predictd/pkg/types"
)

// Pipeline is stateless apart from the shared read-only handle and is safe
// for concurrent use.
type Pipeline struct {
	handle model.Handle
	log    zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for per-prediction debug lines.
func WithLogger(l zerolog.Logger) Option { return func(p *Pipeline) { p.log = l } }

// New binds a pipeline to h. It fails if h does not take one column per
// feature, which is a startup error rather than a per-request one.
func New(h model.Handle, opts ...Option) (*Pipeline, error) {
	if h == nil {
		return nil, errors.New("pipeline: nil model handle")
	}
	if w := h.InputWidth(); w != len(columns) {
		return nil, fmt.Errorf("pipeline: model expects %d input columns, features provide %d", w, len(columns))
	}
	p := &Pipeline{handle: h, log: zerolog.Nop()}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Ready reports whether the pipeline can serve. A constructed pipeline
// always holds a loaded handle.
func (p *Pipeline) Ready() bool { return p != nil && p.handle != nil }

// Predict runs one request through the pipeline. Failures are
// *ValidationError before the model is called and *PredictionError after.
// Nothing is retried.
func (p *Pipeline) Predict(ctx context.Context, req types.PredictionRequest) (types.PredictionResponse, error) {
	m, err := Assemble(req)
	if err != nil {
		predictionsTotal.WithLabelValues(outcomeInvalid).Inc()
		return types.PredictionResponse{}, err
	}
	batchRows.Observe(float64(m.Rows))

	if err := ctx.Err(); err != nil {
		predictionsTotal.WithLabelValues(outcomeFailed).Inc()
		return types.PredictionResponse{}, &PredictionError{Stage: "infer", Err: err}
	}
	start := time.Now()
	out, err := p.handle.Infer(m)
	dur := time.Since(start)
	inferDuration.Observe(dur.Seconds())
	if err != nil {
		predictionsTotal.WithLabelValues(outcomeFailed).Inc()
		p.log.Debug().Int("rows", m.Rows).Dur("dur", dur).Err(err).Msg("infer failed")
		return types.PredictionResponse{}, &PredictionError{Stage: "infer", Err: err}
	}
	if out.Rows != m.Rows {
		predictionsTotal.WithLabelValues(outcomeFailed).Inc()
		return types.PredictionResponse{}, &PredictionError{
			Stage: "shape",
			Err:   fmt.Errorf("model returned %d rows for %d inputs", out.Rows, m.Rows),
		}
	}
	predictionsTotal.WithLabelValues(outcomeOK).Inc()
	p.log.Debug().Int("rows", m.Rows).Int("cols", out.Cols).Dur("dur", dur).Msg("predicted")
	return types.PredictionResponse{Predictions: out.ToRows()}, nil
}
