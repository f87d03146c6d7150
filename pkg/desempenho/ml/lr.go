package ml

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// Default hyper parameters of the logistic regression.
const (
	DefaultC       = 1.0
	DefaultMaxIter = 100
	DefaultTol     = 1e-4
)

// LR implements multinomial logistic regression with L2
// regularization.  The intercepts are not regularized.
type LR struct {
	weights *mat.Dense // classes x (features+1); last column holds the intercepts
	C       float64    // Inverse regularization strength
	MaxIter int        // Maximum number of L-BFGS iterations
	Tol     float64    // Stop if the gradient's infinity norm falls below Tol
	Seed    int64      // Seed for the initial coefficients
	Status  optimize.Status
	Niter   int
}

// NewLR returns a new logistic regression with default parameters.
func NewLR(seed int64) *LR {
	return &LR{C: DefaultC, MaxIter: DefaultMaxIter, Tol: DefaultTol, Seed: seed}
}

// Classes returns the number of classes of a fitted model or 0.
func (lr *LR) Classes() int {
	if lr.weights == nil {
		return 0
	}
	r, _ := lr.weights.Dims()
	return r
}

// Coefficients returns the (classes x features) coefficient matrix.
func (lr *LR) Coefficients() mat.Matrix {
	r, c := lr.weights.Dims()
	return lr.weights.Slice(0, r, 0, c-1)
}

// Intercepts returns the per class intercepts.
func (lr *LR) Intercepts() []float64 {
	_, c := lr.weights.Dims()
	return mat.Col(nil, c-1, lr.weights)
}

// Fit fits the model for the given rows and class indices in [0,k).
func (lr *LR) Fit(x mat.Matrix, y []int, k int) error {
	r, c := x.Dims()
	if r == 0 || c == 0 {
		return fmt.Errorf("lr: fit: zero length")
	}
	if len(y) != r {
		return fmt.Errorf("lr: fit: %d rows but %d labels", r, len(y))
	}
	if k < 2 {
		return fmt.Errorf("lr: fit: need at least 2 classes; got %d", k)
	}
	for _, class := range y {
		if class < 0 || class >= k {
			return fmt.Errorf("lr: fit: invalid class index %d", class)
		}
	}
	obj := objective{x: augment(x), y: y, k: k, c: lr.C}
	init := make([]float64, k*(c+1))
	rnd := rand.New(rand.NewSource(lr.Seed))
	for i := range init {
		if i%(c+1) != c {
			init[i] = rnd.NormFloat64() * .01
		}
	}
	settings := optimize.Settings{
		GradientThreshold: lr.Tol,
		MajorIterations:   lr.MaxIter,
	}
	p := optimize.Problem{Func: obj.loss, Grad: obj.gradient}
	res, err := optimize.Minimize(p, init, &settings, &optimize.LBFGS{})
	if res == nil {
		return fmt.Errorf("lr: fit: %v", err)
	}
	if err != nil {
		if math.IsInf(res.F, 0) || math.IsNaN(res.F) {
			return fmt.Errorf("lr: fit: %v", err)
		}
		log.Printf("lr: %v; keeping best location (loss=%f)", err, res.F)
	}
	lr.weights = mat.NewDense(k, c+1, res.X)
	lr.Status = res.Status
	lr.Niter = res.MajorIterations
	return nil
}

// PredictProb returns the (rows x classes) matrix of class
// probabilities.
func (lr *LR) PredictProb(x mat.Matrix) (*mat.Dense, error) {
	z, err := lr.scores(x)
	if err != nil {
		return nil, err
	}
	r, _ := z.Dims()
	for i := 0; i < r; i++ {
		softmax(z.RawRowView(i))
	}
	return z, nil
}

// Predict returns the most probable class index for each row.
func (lr *LR) Predict(x mat.Matrix) ([]int, error) {
	z, err := lr.scores(x)
	if err != nil {
		return nil, err
	}
	r, _ := z.Dims()
	ret := make([]int, r)
	for i := 0; i < r; i++ {
		ret[i] = floats.MaxIdx(z.RawRowView(i))
	}
	return ret, nil
}

func (lr *LR) scores(x mat.Matrix) (*mat.Dense, error) {
	if lr.weights == nil {
		return nil, fmt.Errorf("lr: %w", ErrNotFitted)
	}
	_, c := x.Dims()
	if _, wc := lr.weights.Dims(); wc != c+1 {
		return nil, fmt.Errorf("lr: expected %d features; got %d", wc-1, c)
	}
	var z mat.Dense
	z.Mul(augment(x), lr.weights.T())
	return &z, nil
}

// augment appends a column of ones to x.
func augment(x mat.Matrix) *mat.Dense {
	r, c := x.Dims()
	ret := mat.NewDense(r, c+1, nil)
	ret.Apply(func(i, j int, _ float64) float64 {
		if j == c {
			return 1
		}
		return x.At(i, j)
	}, ret)
	return ret
}

// softmax replaces the scores in place with their probabilities.
func softmax(xs []float64) {
	lse := floats.LogSumExp(xs)
	for i := range xs {
		xs[i] = math.Exp(xs[i] - lse)
	}
}

// objective is the penalized negative log likelihood of the
// multinomial model:  C * sum_i (lse(z_i) - z_i[y_i]) + alpha * ||W||^2.
type objective struct {
	x *mat.Dense // augmented features
	y []int
	k int
	c float64
}

// alpha returns the weight of the squared norm.  With two classes
// the optimum satisfies w0 = -w1, so weighting the norm by 1 puts the
// penalty ||w0-w1||^2 / 2 of a binary model with the same C on the
// difference w0-w1.
func (o *objective) alpha() float64 {
	if o.k == 2 {
		return 1
	}
	return .5
}

func (o *objective) scores(theta []float64) *mat.Dense {
	_, c := o.x.Dims()
	w := mat.NewDense(o.k, c, theta)
	var z mat.Dense
	z.Mul(o.x, w.T())
	return &z
}

func (o *objective) loss(theta []float64) float64 {
	z := o.scores(theta)
	var sum float64
	for i, class := range o.y {
		row := z.RawRowView(i)
		sum += floats.LogSumExp(row) - row[class]
	}
	_, c := o.x.Dims()
	var penalty float64
	for i, v := range theta {
		if i%c != c-1 {
			penalty += v * v
		}
	}
	return o.c*sum + o.alpha()*penalty
}

func (o *objective) gradient(grad, theta []float64) {
	z := o.scores(theta)
	for i, class := range o.y {
		row := z.RawRowView(i)
		softmax(row)
		row[class]--
	}
	_, c := o.x.Dims()
	g := mat.NewDense(o.k, c, grad)
	g.Mul(z.T(), o.x)
	g.Scale(o.c, g)
	a := 2 * o.alpha()
	for i, v := range theta {
		if i%c != c-1 {
			grad[i] += a * v
		}
	}
}

type lrdata struct {
	Weights []float64
	Classes int
	C, Tol  float64
	MaxIter int
	Seed    int64
}

func (lr *LR) data() lrdata {
	data := lrdata{C: lr.C, Tol: lr.Tol, MaxIter: lr.MaxIter, Seed: lr.Seed}
	if lr.weights != nil {
		data.Classes = lr.Classes()
		data.Weights = lr.weights.RawMatrix().Data
	}
	return data
}

func (lr *LR) load(data lrdata) error {
	*lr = LR{C: data.C, Tol: data.Tol, MaxIter: data.MaxIter, Seed: data.Seed}
	if data.Classes == 0 {
		return nil
	}
	if len(data.Weights)%data.Classes != 0 || len(data.Weights) == data.Classes {
		return fmt.Errorf("lr: bad weights: %d values for %d classes", len(data.Weights), data.Classes)
	}
	lr.weights = mat.NewDense(data.Classes, len(data.Weights)/data.Classes, data.Weights)
	return nil
}

// MarshalJSON implements the json.Marshal interface.
func (lr *LR) MarshalJSON() ([]byte, error) {
	return json.Marshal(lr.data())
}

// UnmarshalJSON implements the json.Unmarshal interface.
func (lr *LR) UnmarshalJSON(data []byte) error {
	var tmp lrdata
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	return lr.load(tmp)
}

// GobEncode implements the GobEncoder interface.
func (lr *LR) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(lr.data())
	return buf.Bytes(), err
}

// GobDecode implements the GobDecoder interface.
func (lr *LR) GobDecode(data []byte) error {
	var tmp lrdata
	r := bytes.NewReader(data)
	if err := gob.NewDecoder(r).Decode(&tmp); err != nil {
		return err
	}
	return lr.load(tmp)
}
