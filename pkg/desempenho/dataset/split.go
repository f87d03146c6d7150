package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// MissingColumnError is returned if a table lacks a requested column.
type MissingColumnError struct {
	Name      string   // The requested column
	Available []string // The columns of the table
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("column %q not found; available columns: %v", e.Name, e.Available)
}

// Is makes MissingColumnError match ErrMissingColumn.
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// Split removes the target column from the table.  It returns the
// remaining feature table and the target values.  The original table
// is not modified.
func (t *Table) Split(target string) (*Table, []string, error) {
	pos := t.Index(target)
	if pos < 0 {
		return nil, nil, &MissingColumnError{
			Name:      target,
			Available: append([]string(nil), t.Columns...),
		}
	}
	x := Table{
		Columns: make([]string, 0, len(t.Columns)-1),
		Rows:    make([][]string, len(t.Rows)),
	}
	x.Columns = append(append(x.Columns, t.Columns[:pos]...), t.Columns[pos+1:]...)
	y := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		x.Rows[i] = make([]string, 0, len(row)-1)
		x.Rows[i] = append(append(x.Rows[i], row[:pos]...), row[pos+1:]...)
		y[i] = row[pos]
	}
	return &x, y, nil
}

// Matrix converts the table into a dense (rows x columns) matrix.
// Every cell must hold a number.
func (t *Table) Matrix() (*mat.Dense, error) {
	r, c := len(t.Rows), len(t.Columns)
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("matrix: empty table (%d rows, %d columns)", r, c)
	}
	data := make([]float64, 0, r*c)
	for i, row := range t.Rows {
		for j, cell := range row {
			val, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
				return nil, fmt.Errorf("matrix: row %d, column %q: %w: %q",
					i+1, t.Columns[j], ErrNonNumeric, cell)
			}
			data = append(data, val)
		}
	}
	return mat.NewDense(r, c, data), nil
}

// Rows returns a new matrix holding the given rows of x in order.
func Rows(x mat.Matrix, ids []int) *mat.Dense {
	_, c := x.Dims()
	ret := mat.NewDense(len(ids), c, nil)
	for i, id := range ids {
		for j := 0; j < c; j++ {
			ret.Set(i, j, x.At(id, j))
		}
	}
	return ret
}

// Select returns the labels at the given positions.
func Select(labels []string, ids []int) []string {
	ret := make([]string, len(ids))
	for i, id := range ids {
		ret[i] = labels[id]
	}
	return ret
}

// Partition holds the row indices of a train/test split.
type Partition struct {
	Train, Test []int
}

// TrainTestSplit computes a stratified shuffle split of n =
// len(labels) rows.  The test partition holds ceil(testSize*n) rows.
// Each class contributes to the test partition in proportion to its
// frequency; remaining slots go to the classes with the largest
// fractional share.  The result only depends on the labels, the test
// size and the seed.
func TrainTestSplit(labels []string, testSize float64, seed int64) (Partition, error) {
	n := len(labels)
	if n == 0 {
		return Partition{}, fmt.Errorf("trainTestSplit: %w: no rows", ErrStratify)
	}
	if testSize <= 0 || testSize >= 1 {
		return Partition{}, fmt.Errorf("trainTestSplit: invalid test size %g", testSize)
	}
	ntest := int(math.Ceil(testSize * float64(n)))
	ntrain := n - ntest
	classes, members := groupByClass(labels)
	if ntest < len(classes) || ntrain < len(classes) {
		return Partition{}, fmt.Errorf("trainTestSplit: %w: %d train and %d test rows for %d classes",
			ErrStratify, ntrain, ntest, len(classes))
	}
	for i, ids := range members {
		if len(ids) < 2 {
			return Partition{}, fmt.Errorf("trainTestSplit: %w: class %q has only %d member",
				ErrStratify, classes[i], len(ids))
		}
	}
	counts := make([]int, len(classes))
	for i := range members {
		counts[i] = len(members[i])
	}
	tests := allocate(counts, ntest)
	rnd := rand.New(rand.NewSource(seed))
	p := Partition{
		Train: make([]int, 0, ntrain),
		Test:  make([]int, 0, ntest),
	}
	for i, ids := range members {
		perm := rnd.Perm(len(ids))
		for j, k := range perm {
			if j < tests[i] {
				p.Test = append(p.Test, ids[k])
			} else {
				p.Train = append(p.Train, ids[k])
			}
		}
	}
	rnd.Shuffle(len(p.Train), func(i, j int) { p.Train[i], p.Train[j] = p.Train[j], p.Train[i] })
	rnd.Shuffle(len(p.Test), func(i, j int) { p.Test[i], p.Test[j] = p.Test[j], p.Test[i] })
	return p, nil
}

// groupByClass returns the sorted class labels and the row indices of
// each class in input order.
func groupByClass(labels []string) ([]string, [][]int) {
	pos := make(map[string]int)
	var classes []string
	for _, label := range labels {
		if _, ok := pos[label]; !ok {
			pos[label] = 0
			classes = append(classes, label)
		}
	}
	sort.Strings(classes)
	for i, class := range classes {
		pos[class] = i
	}
	members := make([][]int, len(classes))
	for i, label := range labels {
		members[pos[label]] = append(members[pos[label]], i)
	}
	return classes, members
}

// allocate distributes n draws over the classes proportionally to
// their counts using the largest remainder method.  Ties are resolved
// in class order.  No class receives more than counts[i]-1 draws.
func allocate(counts []int, n int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}
	ret := make([]int, len(counts))
	rems := make([]float64, len(counts))
	left := n
	for i, c := range counts {
		share := float64(n) * float64(c) / float64(total)
		ret[i] = int(math.Floor(share))
		rems[i] = share - float64(ret[i])
		left -= ret[i]
	}
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rems[order[a]] > rems[order[b]] })
	for left > 0 {
		before := left
		for _, i := range order {
			if left == 0 {
				break
			}
			if ret[i] < counts[i]-1 {
				ret[i]++
				left--
			}
		}
		if before == left {
			break
		}
	}
	return ret
}
