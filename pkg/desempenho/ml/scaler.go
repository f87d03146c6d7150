package ml

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes features by removing the mean and scaling to
// unit variance.  Columns with zero variance keep a scale of 1.
type Scaler struct {
	mean, scale []float64
}

// Fit learns the per column mean and (population) standard deviation.
func (s *Scaler) Fit(x mat.Matrix) error {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("scaler: fit: zero length")
	}
	s.mean = make([]float64, c)
	s.scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		s.mean[j], s.scale[j] = mean, std
	}
	return nil
}

// Transform applies the learned standardization and returns a new
// matrix.
func (s *Scaler) Transform(x mat.Matrix) (*mat.Dense, error) {
	if s.mean == nil {
		return nil, fmt.Errorf("scaler: transform: %w", ErrNotFitted)
	}
	r, c := x.Dims()
	if c != len(s.mean) {
		return nil, fmt.Errorf("scaler: transform: expected %d features; got %d", len(s.mean), c)
	}
	ret := mat.NewDense(r, c, nil)
	ret.Apply(func(i, j int, v float64) float64 {
		return (v - s.mean[j]) / s.scale[j]
	}, x)
	return ret, nil
}

// Mean returns the learned per feature means.
func (s *Scaler) Mean() []float64 {
	return s.mean
}

// Scale returns the learned per feature scales.
func (s *Scaler) Scale() []float64 {
	return s.scale
}

type scalerdata struct {
	Mean, Scale []float64
}

// GobEncode implements the GobEncoder interface.
func (s *Scaler) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(scalerdata{Mean: s.mean, Scale: s.scale})
	return buf.Bytes(), err
}

// GobDecode implements the GobDecoder interface.
func (s *Scaler) GobDecode(data []byte) error {
	var tmp scalerdata
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&tmp); err != nil {
		return err
	}
	if len(tmp.Mean) != len(tmp.Scale) {
		return fmt.Errorf("scaler: decode: %d means and %d scales", len(tmp.Mean), len(tmp.Scale))
	}
	*s = Scaler{mean: tmp.Mean, scale: tmp.Scale}
	return nil
}
