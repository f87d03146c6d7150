package inspect

import (
	"encoding/json"
	"fmt"
	"io"

	"git.sr.ht/~flobar/desempenho/cmd/internal"
	"git.sr.ht/~flobar/desempenho/pkg/desempenho"
	"git.sr.ht/~flobar/desempenho/pkg/desempenho/ml"
	"github.com/spf13/cobra"
)

// CMD defines the desempenho inspect command.
var CMD = &cobra.Command{
	Use:   "inspect [MODEL...]",
	Short: "Print information about trained models",
	Run:   run,
}

var flags = struct {
	json bool
}{}

func init() {
	CMD.Flags().BoolVarP(&flags.json, "json", "j", false, "output json")
}

func run(cmd *cobra.Command, args []string) {
	if len(args) == 0 {
		args = []string{desempenho.DefaultModel}
	}
	for _, name := range args {
		p, err := desempenho.ReadModel(name)
		internal.Chk(err)
		if flags.json {
			internal.Chk(printJSON(cmd.OutOrStdout(), name, p))
			continue
		}
		internal.Chk(printModel(cmd.OutOrStdout(), name, p))
	}
}

type model struct {
	Name     string    `json:"name"`
	Features []string  `json:"features"`
	Classes  []string  `json:"classes"`
	Mean     []float64 `json:"mean"`
	Scale    []float64 `json:"scale"`
	Model    *ml.LR    `json:"model"`
}

func printJSON(out io.Writer, name string, p *ml.Pipeline) error {
	return json.NewEncoder(out).Encode(model{
		Name:     name,
		Features: p.Features,
		Classes:  p.Classes,
		Mean:     p.Scaler().Mean(),
		Scale:    p.Scaler().Scale(),
		Model:    p.Model(),
	})
}

func printModel(out io.Writer, name string, p *ml.Pipeline) error {
	if _, err := fmt.Fprintf(out, "%s classes %v\n", name, p.Classes); err != nil {
		return err
	}
	mean, scale := p.Scaler().Mean(), p.Scaler().Scale()
	for i, f := range p.Features {
		if _, err := fmt.Fprintf(out, "%s scaler %s mean=%f scale=%f\n",
			name, f, mean[i], scale[i]); err != nil {
			return err
		}
	}
	lr := p.Model()
	ws, bs := lr.Coefficients(), lr.Intercepts()
	for k, class := range p.Classes {
		for j, f := range p.Features {
			if _, err := fmt.Fprintf(out, "%s %s %s %f\n",
				name, class, f, ws.At(k, j)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(out, "%s %s intercept %f\n", name, class, bs[k]); err != nil {
			return err
		}
	}
	return nil
}
