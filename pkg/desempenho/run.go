// Package desempenho trains a classifier that predicts the final
// academic status of students from their historical records.
package desempenho

import (
	"errors"
	"fmt"
	"io"

	"git.sr.ht/~flobar/desempenho/pkg/desempenho/dataset"
	"git.sr.ht/~flobar/desempenho/pkg/desempenho/eval"
	"git.sr.ht/~flobar/desempenho/pkg/desempenho/ml"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/mat"
)

// ErrNoData is returned if the input data could not be loaded.
var ErrNoData = errors.New("no data")

// Result holds the outcome of a training run.
type Result struct {
	Pipeline  *ml.Pipeline
	Partition dataset.Partition
	XTest     *mat.Dense
	YTest     []string
	YPred     []string
	Report    eval.Report
}

// Run executes a training run: it loads the data, splits it into
// training and test partitions, fits the pipeline, evaluates it on
// the test partition and writes the fitted pipeline to c.Model.
// Progress and the evaluation report are written to out.
//
// If the data cannot be loaded, the returned error wraps ErrNoData.
// If the target column is missing, the returned error wraps
// dataset.ErrMissingColumn.  In both cases no model is written.
func Run(out io.Writer, c *Config) (*Result, error) {
	p := printer{out: out, heading: lipgloss.NewRenderer(out).NewStyle().Bold(true)}
	tab, err := load(&p, c.Data)
	if err != nil {
		p.printf("The pipeline cannot continue because the data was not loaded!\n")
		return nil, fmt.Errorf("run: %w: %w", ErrNoData, err)
	}
	p.printf("\nTotal records loaded: %d\n", tab.Len())
	p.printf("Starting the training pipeline\n")

	x, y, err := tab.Split(c.Target)
	if err != nil {
		var merr *dataset.MissingColumnError
		if errors.As(err, &merr) {
			p.printf("\n%s\n", p.heading.Render("----- Critical error -----"))
			p.printf("The column %s was not found in the CSV\n", merr.Name)
			p.printf("Available columns: %v\n", merr.Available)
			p.printf("Please adjust the target column and try again!\n")
		}
		return nil, fmt.Errorf("run: %w", err)
	}
	p.printf("Features (X): %v\n", x.Columns)
	p.printf("Target (y): %s\n", c.Target)

	p.section("Splitting data into training and test sets...")
	xs, err := x.Matrix()
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	part, err := dataset.TrainTestSplit(y, c.TestSize, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	p.printf("Training rows: %d | Test rows: %d\n", len(part.Train), len(part.Test))
	res := Result{
		Partition: part,
		XTest:     dataset.Rows(xs, part.Test),
		YTest:     dataset.Select(y, part.Test),
	}

	p.section("Creating the ML pipeline...")
	res.Pipeline = ml.NewPipeline(x.Columns, c.LR())

	p.section("Training the model...")
	ytrain := dataset.Select(y, part.Train)
	if err := res.Pipeline.Fit(dataset.Rows(xs, part.Train), ytrain); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	lr := res.Pipeline.Model()
	Log("fitted %d rows, %d features, %d classes: status=%v, iterations=%d",
		len(ytrain), len(x.Columns), lr.Classes(), lr.Status, lr.Niter)
	p.printf("Model trained. Evaluating with the test data...\n")
	if res.YPred, err = res.Pipeline.Predict(res.XTest); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	if res.Report, err = eval.Evaluate(res.YTest, res.YPred); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	p.section("General evaluation report")
	p.printf("Overall accuracy: %.2f%%\n", res.Report.Accuracy*100)
	p.printf("\nDetailed classification report:\n")
	if p.err == nil {
		p.err = res.Report.Format(out)
	}
	p.printf("\n")

	p.printf("\nSaving the trained pipeline to %s\n", c.Model)
	if err := WriteModel(c.Model, res.Pipeline); err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	p.printf("Process completed successfully!\n")
	p.printf("The file '%s' is ready to be used!\n", c.Model)
	if p.err != nil {
		return nil, fmt.Errorf("run: %v", p.err)
	}
	return &res, nil
}

func load(p *printer, path string) (*dataset.Table, error) {
	tab, err := dataset.Load(path)
	switch {
	case errors.Is(err, dataset.ErrNotFound):
		p.printf("The file %s was not found!\n", path)
		return nil, err
	case err != nil:
		p.printf("Unexpected error loading the file: %v\n", err)
		return nil, err
	}
	p.printf("The file %s was loaded successfully!\n", path)
	return tab, nil
}

type printer struct {
	out     io.Writer
	heading lipgloss.Style
	err     error
}

func (p *printer) printf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.out, format, args...)
}

func (p *printer) section(title string) {
	p.printf("\n%s\n", p.heading.Render("------ "+title+" ------"))
}
