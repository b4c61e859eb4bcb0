package domain

// RequestKind discriminates scoring backend calls. The engine only ever
// issues metrics requests; the kind travels on the wire so multi-purpose
// backends can route without inspecting payloads.
type RequestKind string

// RequestMetrics asks the backend to compute evaluation metrics for a batch.
const RequestMetrics RequestKind = "metrics"

// ScoreRequest is one scoring call: compute metrics for every example in the
// batch against one model.
type ScoreRequest struct {
	// Examples is the ordered batch under evaluation.
	Examples []Example `json:"examples"`

	// Model identifies the model whose outputs are scored.
	Model string `json:"model"`

	// Dataset identifies the dataset the batch was drawn from.
	Dataset string `json:"dataset"`

	// Kind is the fixed request discriminator, RequestMetrics.
	Kind RequestKind `json:"kind"`

	// Config carries model-specific calibration, e.g. classification
	// margins. Empty when no calibration is in effect.
	Config map[string]any `json:"config,omitempty"`
}

// FieldMetrics is one generator result for one prediction field.
type FieldMetrics struct {
	// PredKey is the prediction field the metrics were computed against.
	PredKey string `json:"pred_key"`

	// LabelKey is the dataset field the predictions were compared to.
	LabelKey string `json:"label_key"`

	// Metrics maps metric names to their numeric values.
	Metrics map[string]float64 `json:"metrics"`
}

// ScoreResponse maps each metrics generator's name to its per-field results.
// A backend reports only the generators applicable to the request; an absent
// generator or metric is not an error and projects as the "-" placeholder.
type ScoreResponse map[string][]FieldMetrics
