// Package ml implements the standardization and classification
// stages of the training pipeline.
package ml

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Errors for the pipeline's fit/predict state transitions.
var (
	ErrNotFitted = errors.New("pipeline not fitted")
	ErrFitted    = errors.New("pipeline already fitted")
)

// Transformer learns a transformation on fit and applies it
// unchanged afterwards.
type Transformer interface {
	Fit(x mat.Matrix) error
	Transform(x mat.Matrix) (*mat.Dense, error)
}

// Classifier learns to map rows to class indices in [0,k).
type Classifier interface {
	Fit(x mat.Matrix, y []int, k int) error
	Predict(x mat.Matrix) ([]int, error)
}

var (
	_ Transformer = (*Scaler)(nil)
	_ Classifier  = (*LR)(nil)
)
