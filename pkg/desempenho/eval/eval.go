// Package eval computes accuracy and per class precision, recall and
// F1 scores for predicted class labels.
package eval

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// Stats holds the confusion counts of a single class.
type Stats struct {
	tp, fp, fn int
}

func (s *Stats) add(class, y, p string) {
	switch {
	case y == class && p == class:
		s.tp++
	case y == class:
		s.fn++
	case p == class:
		s.fp++
	}
}

// Recall returns tp/(tp+fn) or 0.
func (s Stats) Recall() float64 {
	if s.tp == 0 && s.fn == 0 {
		return 0
	}
	return float64(s.tp) / float64(s.tp+s.fn)
}

// Precision returns tp/(tp+fp) or 0.
func (s Stats) Precision() float64 {
	if s.tp == 0 && s.fp == 0 {
		return 0
	}
	return float64(s.tp) / float64(s.tp+s.fp)
}

// F1 returns the harmonic mean of precision and recall or 0.
func (s Stats) F1() float64 {
	p, r := s.Precision(), s.Recall()
	if p == 0 && r == 0 {
		return 0
	}
	return (2 * p * r) / (p + r)
}

// Support returns the number of true instances of the class.
func (s Stats) Support() int {
	return s.tp + s.fn
}

// Report is the evaluation of a set of predictions.
type Report struct {
	Classes  []string // Sorted union of true and predicted labels
	Stats    []Stats  // Per class statistics in the order of Classes
	Accuracy float64
	Total    int
}

// Evaluate compares the predictions with the true labels.
func Evaluate(ys, ps []string) (Report, error) {
	if len(ys) != len(ps) {
		return Report{}, fmt.Errorf("evaluate: %d labels but %d predictions", len(ys), len(ps))
	}
	if len(ys) == 0 {
		return Report{}, fmt.Errorf("evaluate: no predictions")
	}
	set := make(map[string]struct{})
	var correct int
	for i := range ys {
		set[ys[i]] = struct{}{}
		set[ps[i]] = struct{}{}
		if ys[i] == ps[i] {
			correct++
		}
	}
	r := Report{
		Classes:  make([]string, 0, len(set)),
		Accuracy: float64(correct) / float64(len(ys)),
		Total:    len(ys),
	}
	for class := range set {
		r.Classes = append(r.Classes, class)
	}
	sort.Strings(r.Classes)
	r.Stats = make([]Stats, len(r.Classes))
	for i, class := range r.Classes {
		for j := range ys {
			r.Stats[i].add(class, ys[j], ps[j])
		}
	}
	return r, nil
}

// MacroAvg returns the unweighted means of precision, recall and F1.
func (r Report) MacroAvg() (p, rc, f1 float64) {
	for _, s := range r.Stats {
		p += s.Precision()
		rc += s.Recall()
		f1 += s.F1()
	}
	n := float64(len(r.Stats))
	return p / n, rc / n, f1 / n
}

// WeightedAvg returns the means of precision, recall and F1 weighted
// by the support of each class.
func (r Report) WeightedAvg() (p, rc, f1 float64) {
	for _, s := range r.Stats {
		w := float64(s.Support())
		p += w * s.Precision()
		rc += w * s.Recall()
		f1 += w * s.F1()
	}
	n := float64(r.Total)
	return p / n, rc / n, f1 / n
}

// Format writes the classification report as a fixed width table.
func (r Report) Format(out io.Writer) error {
	width := len("weighted avg")
	for _, class := range r.Classes {
		if n := utf8.RuneCountInString(class); n > width {
			width = n
		}
	}
	f := formater{out: out}
	f.printf("%*s  %9s %9s %9s %9s\n\n", width, "", "precision", "recall", "f1-score", "support")
	for i, class := range r.Classes {
		s := r.Stats[i]
		f.printf("%*s  %9.2f %9.2f %9.2f %9d\n", width, class, s.Precision(), s.Recall(), s.F1(), s.Support())
	}
	f.printf("\n")
	f.printf("%*s  %9s %9s %9.2f %9d\n", width, "accuracy", "", "", r.Accuracy, r.Total)
	p, rc, f1 := r.MacroAvg()
	f.printf("%*s  %9.2f %9.2f %9.2f %9d\n", width, "macro avg", p, rc, f1, r.Total)
	p, rc, f1 = r.WeightedAvg()
	f.printf("%*s  %9.2f %9.2f %9.2f %9d\n", width, "weighted avg", p, rc, f1, r.Total)
	return f.err
}

type formater struct {
	out io.Writer
	err error
}

func (f *formater) printf(format string, args ...interface{}) {
	if f.err != nil {
		return
	}
	_, err := fmt.Fprintf(f.out, format, args...)
	f.err = err
}
