package main

import (
	"git.sr.ht/~flobar/desempenho/cmd/inspect"
	"git.sr.ht/~flobar/desempenho/cmd/train"
	"git.sr.ht/~flobar/desempenho/cmd/version"
	"git.sr.ht/~flobar/desempenho/pkg/desempenho"
	"github.com/spf13/cobra"
)

var root = &cobra.Command{
	Use:   "desempenho",
	Short: "Train a classifier predicting the final academic status of students",
	Args:  cobra.NoArgs,
	Run:   train.CMD.Run,
	PersistentPreRun: func(*cobra.Command, []string) {
		desempenho.SetLog(logging)
	},
}

var logging bool

func init() {
	// Without a sub command the root command trains.
	root.Flags().AddFlagSet(train.CMD.Flags())
	root.PersistentFlags().BoolVarP(&logging, "log", "L", false, "enable diagnostic logging")
	root.AddCommand(
		inspect.CMD,
		train.CMD,
		version.CMD,
	)
}

func main() {
	root.Execute()
}
