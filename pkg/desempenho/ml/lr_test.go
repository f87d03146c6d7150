package ml

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLR(t *testing.T) {
	for _, tc := range []struct {
		x    []float64
		y    []int
		k    int
		test []float64
		want []int
	}{
		{
			[]float64{-2, -1.5, -1, 1, 1.5, 2},
			[]int{0, 0, 0, 1, 1, 1},
			2,
			[]float64{-3, -.5, .5, 3},
			[]int{0, 0, 1, 1},
		},
		{
			[]float64{-3, -2.5, -2, 0, .2, -.2, 2, 2.5, 3},
			[]int{0, 0, 0, 1, 1, 1, 2, 2, 2},
			3,
			[]float64{-4, 0.1, 4},
			[]int{0, 1, 2},
		},
	} {
		t.Run(fmt.Sprintf("%d classes", tc.k), func(t *testing.T) {
			x := mat.NewDense(len(tc.y), len(tc.x)/len(tc.y), tc.x)
			lr := NewLR(42)
			if err := lr.Fit(x, tc.y, tc.k); err != nil {
				t.Fatalf("got error: %v", err)
			}
			got, err := lr.Predict(x)
			if err != nil {
				t.Fatalf("got error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.y) {
				t.Fatalf("expected %v; got %v", tc.y, got)
			}
			test := mat.NewDense(len(tc.want), 1, tc.test)
			got, err = lr.Predict(test)
			if err != nil {
				t.Fatalf("got error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v; got %v", tc.want, got)
			}
		})
	}
}

func TestLRProb(t *testing.T) {
	x := mat.NewDense(6, 1, []float64{-2, -1.5, -1, 1, 1.5, 2})
	lr := NewLR(42)
	if err := lr.Fit(x, []int{0, 0, 0, 1, 1, 1}, 2); err != nil {
		t.Fatalf("got error: %v", err)
	}
	ps, err := lr.PredictProb(x)
	if err != nil {
		t.Fatalf("got error: %v", err)
	}
	r, c := ps.Dims()
	if r != 6 || c != 2 {
		t.Fatalf("expected 6x2; got %dx%d", r, c)
	}
	for i := 0; i < r; i++ {
		if sum := ps.At(i, 0) + ps.At(i, 1); math.Abs(sum-1) > 1e-9 {
			t.Fatalf("row %d: expected sum 1; got %f", i, sum)
		}
	}
	if ps.At(0, 0) <= .5 || ps.At(5, 1) <= .5 {
		t.Fatalf("bad probabilities: %v", mat.Formatted(ps))
	}
}

func TestLRReproducible(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	xs := make([]float64, 40*3)
	ys := make([]int, 40)
	for i := range ys {
		for j := 0; j < 3; j++ {
			xs[i*3+j] = rnd.NormFloat64()
		}
		if xs[i*3]+rnd.NormFloat64()*.5 > 0 {
			ys[i] = 1
		}
	}
	x := mat.NewDense(40, 3, xs)
	a, b := NewLR(42), NewLR(42)
	if err := a.Fit(x, ys, 2); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if err := b.Fit(x, ys, 2); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if !reflect.DeepEqual(a.weights, b.weights) {
		t.Fatalf("expected %v; got %v", a.weights, b.weights)
	}
}

func TestLRGradient(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{1, 2, -1, .5, .3, -2, 0, 1})
	for _, o := range []objective{
		{x: augment(x), y: []int{0, 2, 1, 2}, k: 3, c: .7},
		{x: augment(x), y: []int{0, 1, 1, 0}, k: 2, c: .7},
	} {
		t.Run(fmt.Sprintf("%d classes", o.k), func(t *testing.T) {
			theta := []float64{.1, -.2, .3, .4, -.5, .6, -.7, .8, .9}[:3*o.k]
			grad := make([]float64, len(theta))
			o.gradient(grad, theta)
			const h = 1e-6
			for i := range theta {
				tmp := append([]float64(nil), theta...)
				tmp[i] += h
				fp := o.loss(tmp)
				tmp[i] -= 2 * h
				fm := o.loss(tmp)
				if num := (fp - fm) / (2 * h); math.Abs(num-grad[i]) > 1e-5 {
					t.Fatalf("grad[%d]: expected %f; got %f", i, num, grad[i])
				}
			}
		})
	}
}

// With two classes the difference of the coefficient rows must be
// the optimum of a binary logistic regression with the same C:
// C * sum_i (sigmoid(beta*x_i+b) - t_i) * x_i + beta = 0.
func TestLRBinaryPenalty(t *testing.T) {
	xs := []float64{-2, -1, -.5, 0, .5, 1, 2, 1.5, -1.5, .2}
	ys := []int{0, 0, 1, 0, 1, 1, 1, 0, 0, 1}
	for _, c := range []float64{.5, 1, 4} {
		t.Run(fmt.Sprint(c), func(t *testing.T) {
			lr := &LR{C: c, MaxIter: 1000, Tol: 1e-9, Seed: 42}
			if err := lr.Fit(mat.NewDense(len(xs), 1, xs), ys, 2); err != nil {
				t.Fatalf("got error: %v", err)
			}
			ws, bs := lr.Coefficients(), lr.Intercepts()
			beta, b := ws.At(0, 0)-ws.At(1, 0), bs[0]-bs[1]
			if beta == 0 {
				t.Fatalf("expected non zero coefficient")
			}
			gbeta, gb := beta, 0.0
			for i, x := range xs {
				p := 1 / (1 + math.Exp(-(beta*x + b)))
				var target float64
				if ys[i] == 0 {
					target = 1
				}
				gbeta += c * (p - target) * x
				gb += c * (p - target)
			}
			if math.Abs(gbeta) > 1e-4 || math.Abs(gb) > 1e-4 {
				t.Fatalf("not a binary optimum: beta=%f b=%f grad=(%g, %g)", beta, b, gbeta, gb)
			}
		})
	}
}

func TestLRErrors(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 2})
	for _, tc := range []struct {
		name string
		y    []int
		k    int
	}{
		{"one class", []int{0, 0}, 1},
		{"bad label", []int{0, 2}, 2},
		{"bad length", []int{0}, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if err := NewLR(42).Fit(x, tc.y, tc.k); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
	if _, err := NewLR(42).Predict(x); !errors.Is(err, ErrNotFitted) {
		t.Fatalf("expected %v; got %v", ErrNotFitted, err)
	}
}

func TestJSON(t *testing.T) {
	lr := LR{
		C:       1,
		MaxIter: 100,
		Tol:     1e-4,
		Seed:    42,
		weights: mat.NewDense(2, 3, []float64{.1, .2, .3, -.1, -.2, -.3}),
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(&lr); err != nil {
		t.Fatalf("got error: %v", err)
	}
	var lr2 LR
	if err := json.NewDecoder(&buf).Decode(&lr2); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if !reflect.DeepEqual(lr, lr2) {
		t.Fatalf("expected %v; got %v", lr, lr2)
	}
}

func TestGob(t *testing.T) {
	lr := LR{
		C:       .5,
		MaxIter: 10,
		Tol:     1e-3,
		Seed:    42,
		weights: mat.NewDense(3, 2, []float64{.1, .2, .3, -.1, -.2, -.3}),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&lr); err != nil {
		t.Fatalf("got error: %v", err)
	}
	var lr2 LR
	if err := gob.NewDecoder(&buf).Decode(&lr2); err != nil {
		t.Fatalf("got error: %v", err)
	}
	if !reflect.DeepEqual(lr, lr2) {
		t.Fatalf("expected %v; got %v", lr, lr2)
	}
	if got := lr2.Intercepts(); !floatArrayEqual(got, []float64{.2, -.1, -.3}, 1e-12) {
		t.Fatalf("expected intercepts %v; got %v", []float64{.2, -.1, -.3}, got)
	}
}

func floatArrayEqual(a, b []float64, tolerance float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if diff := math.Abs(a[i] - b[i]); diff > tolerance {
			return false
		}
	}
	return true
}
