package grading

import (
	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/types"
)

// Resolver dispatches a question to the first registered strategy that
// supports its type. Handled-type sets are disjoint, so registration order
// does not change the outcome. Resolve returns nil when no strategy claims
// the type; the caller decides the fallback (in practice, manual review).
type Resolver struct {
	log        *logger.Logger
	strategies []Strategy
}

func NewResolver(baseLog *logger.Logger, strategies ...Strategy) *Resolver {
	resolverLog := baseLog.With("component", "GradingResolver")
	return &Resolver{log: resolverLog, strategies: strategies}
}

func (r *Resolver) Resolve(q *types.Question) Strategy {
	if q == nil {
		return nil
	}
	for _, s := range r.strategies {
		if s.Supports(q) {
			return s
		}
	}
	r.log.Debug("No grading strategy claims question type", "question_id", q.ID, "type", q.Type)
	return nil
}
