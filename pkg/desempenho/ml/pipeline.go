package ml

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Pipeline chains a Scaler and a logistic regression.  A pipeline is
// fitted exactly once; afterwards it only predicts.  Prediction
// reuses the learned scaling and never refits it.
type Pipeline struct {
	Features []string // Feature names in column order
	Classes  []string // Sorted class labels
	scaler   *Scaler
	model    *LR
	fitted   bool
}

// NewPipeline creates a new, unfitted pipeline for the given features
// and classifier.
func NewPipeline(features []string, lr *LR) *Pipeline {
	return &Pipeline{
		Features: features,
		scaler:   new(Scaler),
		model:    lr,
	}
}

// Fitted returns true if the pipeline has been fitted.
func (p *Pipeline) Fitted() bool {
	return p.fitted
}

// Scaler returns the pipeline's standardization stage.
func (p *Pipeline) Scaler() *Scaler {
	return p.scaler
}

// Model returns the pipeline's classification stage.
func (p *Pipeline) Model() *LR {
	return p.model
}

// Fit fits the scaler on x, transforms x and fits the classifier on
// the transformed rows.
func (p *Pipeline) Fit(x mat.Matrix, y []string) error {
	if p.fitted {
		return fmt.Errorf("fit: %w", ErrFitted)
	}
	r, c := x.Dims()
	if c != len(p.Features) {
		return fmt.Errorf("fit: expected %d features; got %d", len(p.Features), c)
	}
	if r != len(y) {
		return fmt.Errorf("fit: %d rows but %d labels", r, len(y))
	}
	classes, ys := encode(y)
	if len(classes) < 2 {
		return fmt.Errorf("fit: need at least 2 classes; got %v", classes)
	}
	if err := p.scaler.Fit(x); err != nil {
		return fmt.Errorf("fit: %v", err)
	}
	xs, err := p.scaler.Transform(x)
	if err != nil {
		return fmt.Errorf("fit: %v", err)
	}
	if err := p.model.Fit(xs, ys, len(classes)); err != nil {
		return fmt.Errorf("fit: %v", err)
	}
	p.Classes = classes
	p.fitted = true
	return nil
}

// Predict returns the predicted class labels for the rows of x.
func (p *Pipeline) Predict(x mat.Matrix) ([]string, error) {
	xs, err := p.transform(x)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	ids, err := p.model.Predict(xs)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	ret := make([]string, len(ids))
	for i, id := range ids {
		ret[i] = p.Classes[id]
	}
	return ret, nil
}

// PredictProb returns the (rows x classes) class probabilities.
// Column j corresponds to p.Classes[j].
func (p *Pipeline) PredictProb(x mat.Matrix) (*mat.Dense, error) {
	xs, err := p.transform(x)
	if err != nil {
		return nil, fmt.Errorf("predictProb: %w", err)
	}
	return p.model.PredictProb(xs)
}

func (p *Pipeline) transform(x mat.Matrix) (*mat.Dense, error) {
	if !p.fitted {
		return nil, ErrNotFitted
	}
	return p.scaler.Transform(x)
}

// encode maps the labels to indices into the sorted list of distinct
// labels.
func encode(labels []string) ([]string, []int) {
	set := make(map[string]int)
	for _, label := range labels {
		set[label] = 0
	}
	classes := make([]string, 0, len(set))
	for class := range set {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for i, class := range classes {
		set[class] = i
	}
	ids := make([]int, len(labels))
	for i, label := range labels {
		ids[i] = set[label]
	}
	return classes, ids
}

type pipelinedata struct {
	Features []string
	Classes  []string
	Scaler   *Scaler
	Model    *LR
}

// GobEncode implements the GobEncoder interface.  Only fitted
// pipelines can be encoded.
func (p *Pipeline) GobEncode() ([]byte, error) {
	if !p.fitted {
		return nil, ErrNotFitted
	}
	data := pipelinedata{
		Features: p.Features,
		Classes:  p.Classes,
		Scaler:   p.scaler,
		Model:    p.model,
	}
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(data)
	return buf.Bytes(), err
}

// GobDecode implements the GobDecoder interface.
func (p *Pipeline) GobDecode(data []byte) error {
	var tmp pipelinedata
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&tmp); err != nil {
		return err
	}
	if tmp.Scaler == nil || tmp.Model == nil {
		return fmt.Errorf("decode pipeline: missing stage")
	}
	if len(tmp.Scaler.Mean()) != len(tmp.Features) {
		return fmt.Errorf("decode pipeline: %d features but %d scales",
			len(tmp.Features), len(tmp.Scaler.Mean()))
	}
	if tmp.Model.Classes() != len(tmp.Classes) {
		return fmt.Errorf("decode pipeline: %d classes but %d weight rows",
			len(tmp.Classes), tmp.Model.Classes())
	}
	*p = Pipeline{
		Features: tmp.Features,
		Classes:  tmp.Classes,
		scaler:   tmp.Scaler,
		model:    tmp.Model,
		fitted:   true,
	}
	return nil
}
