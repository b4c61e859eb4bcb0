// Package testutils provides utilities for testing, including mock objects
// and test data generators. These components are intended for internal use
// within the project's test suites and example programs and are not part of
// the public API.
package testutils

import (
	"context"
	"sync"
	"time"

	"github.com/ahrav/go-scorecard/internal/domain"
	"github.com/ahrav/go-scorecard/internal/ports"
)

// ScriptedScorer implements ports.Scorer with pre-scripted per-model
// responses, failure injection, and request recording. It is safe for
// concurrent use; the engine calls Score from its fan-out goroutines.
type ScriptedScorer struct {
	mu sync.Mutex

	// ResponseDelay is waited before every response, honoring context
	// cancellation. Configure it before issuing requests.
	ResponseDelay time.Duration

	backend   string
	responses map[string]domain.ScoreResponse
	fallback  domain.ScoreResponse
	failures  map[string]error

	callCount int
	requests  []domain.ScoreRequest
}

// NewScriptedScorer creates a scorer with no scripted responses. Unscripted
// models receive an empty response, which settles without producing rows.
func NewScriptedScorer() *ScriptedScorer {
	return &ScriptedScorer{
		backend:   "scripted",
		responses: make(map[string]domain.ScoreResponse),
		failures:  make(map[string]error),
	}
}

// ScriptResponse sets the canned response returned for the model.
// Scripting a model clears any previously injected failure for it.
func (s *ScriptedScorer) ScriptResponse(model string, resp domain.ScoreResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[model] = resp
	delete(s.failures, model)
}

// ScriptFallback sets the response returned for models without a scripted
// response of their own.
func (s *ScriptedScorer) ScriptFallback(resp domain.ScoreResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = resp
}

// ScriptFailure makes every request for the model fail with the given
// error, overriding any scripted response.
func (s *ScriptedScorer) ScriptFailure(model string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[model] = err
}

// Score implements ports.Scorer. Requests are recorded in arrival order.
func (s *ScriptedScorer) Score(ctx context.Context, req domain.ScoreRequest) (domain.ScoreResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callCount++
	s.requests = append(s.requests, req)

	if s.ResponseDelay > 0 {
		select {
		case <-time.After(s.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := s.failures[req.Model]; ok {
		return nil, err
	}
	if resp, ok := s.responses[req.Model]; ok {
		return resp, nil
	}
	if s.fallback != nil {
		return s.fallback, nil
	}
	return domain.ScoreResponse{}, nil
}

// Backend implements ports.Scorer.
func (s *ScriptedScorer) Backend() string { return s.backend }

// CallCount returns how many requests the scorer has received.
func (s *ScriptedScorer) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.callCount
}

// Requests returns a copy of the recorded requests in arrival order.
func (s *ScriptedScorer) Requests() []domain.ScoreRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ScoreRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request and whether one was recorded.
func (s *ScriptedScorer) LastRequest() (domain.ScoreRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return domain.ScoreRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Reset clears the recorded requests and the call count. Scripted responses
// and failures are kept.
func (s *ScriptedScorer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callCount = 0
	s.requests = nil
}

// SingleGeneratorResponse builds a response carrying one generator with one
// field entry, the common scripting case.
func SingleGeneratorResponse(generator, predKey, labelKey string, metrics map[string]float64) domain.ScoreResponse {
	return domain.ScoreResponse{
		generator: {
			{PredKey: predKey, LabelKey: labelKey, Metrics: metrics},
		},
	}
}

// Verify interface compliance at compile time.
var _ ports.Scorer = (*ScriptedScorer)(nil)
