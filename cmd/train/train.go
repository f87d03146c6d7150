package train

import (
	"errors"
	"os"

	"git.sr.ht/~flobar/desempenho/cmd/internal"
	"git.sr.ht/~flobar/desempenho/pkg/desempenho"
	"git.sr.ht/~flobar/desempenho/pkg/desempenho/dataset"
	"github.com/spf13/cobra"
)

// CMD defines the desempenho train command.
var CMD = &cobra.Command{
	Use:   "train",
	Short: "Train the academic status classifier",
	Args:  cobra.NoArgs,
	Run:   run,
}

var flags = struct {
	parameters, data, target, model string
	testSize, c, tol                float64
	maxIter                         int
	seed                            int64
}{}

func init() {
	CMD.Flags().StringVarP(&flags.parameters, "parameters", "P", "",
		"set the path to the configuration file (json, toml or yaml)")
	CMD.Flags().StringVarP(&flags.data, "data", "d", "",
		"set the path to the csv file (overwrites the setting in the configuration file)")
	CMD.Flags().StringVarP(&flags.target, "target", "t", "",
		"set the target column (overwrites the setting in the configuration file)")
	CMD.Flags().StringVarP(&flags.model, "model", "M", "",
		"set the model path (overwrites the setting in the configuration file)")
	CMD.Flags().Float64VarP(&flags.testSize, "test-size", "s", 0,
		"set the fraction of test rows (overwrites the setting in the configuration file)")
	CMD.Flags().Int64Var(&flags.seed, "seed", 0,
		"set the random seed (overwrites the setting in the configuration file)")
	CMD.Flags().Float64VarP(&flags.c, "inverse-regularization", "C", 0,
		"set the inverse regularization strength (overwrites the setting in the configuration file)")
	CMD.Flags().IntVarP(&flags.maxIter, "max-iter", "i", 0,
		"set the maximum number of optimizer iterations (overwrites the setting in the configuration file)")
	CMD.Flags().Float64Var(&flags.tol, "tol", 0,
		"set the gradient tolerance of the optimizer (overwrites the setting in the configuration file)")
}

func run(cmd *cobra.Command, _ []string) {
	c, err := config(cmd)
	internal.Chk(err)
	_, err = desempenho.Run(cmd.OutOrStdout(), c)
	switch {
	case errors.Is(err, desempenho.ErrNoData):
		return
	case errors.Is(err, dataset.ErrMissingColumn):
		os.Exit(0)
	}
	internal.Chk(err)
}

// config reads the configuration file and overlays the command line
// flags.  The seed is overlaid whenever it is given, since 0 is a
// valid seed.
func config(cmd *cobra.Command) (*desempenho.Config, error) {
	c, err := desempenho.ReadConfig(flags.parameters)
	if err != nil {
		return nil, err
	}
	internal.UpdateInConfig(&c.Data, flags.data)
	internal.UpdateInConfig(&c.Target, flags.target)
	internal.UpdateInConfig(&c.Model, flags.model)
	internal.UpdateInConfig(&c.TestSize, flags.testSize)
	internal.UpdateInConfig(&c.Training.C, flags.c)
	internal.UpdateInConfig(&c.Training.MaxIter, flags.maxIter)
	internal.UpdateInConfig(&c.Training.Tol, flags.tol)
	if cmd.Flags().Changed("seed") {
		c.Seed = flags.seed
	}
	return c, nil
}
