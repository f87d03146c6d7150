package version

import (
	"fmt"
	"os"
	"runtime"

	"git.sr.ht/~flobar/desempenho/cmd/internal"
	"github.com/spf13/cobra"
)

// CMD defines the desempenho version command.
var CMD = &cobra.Command{
	Use:   "version",
	Short: "Print desempenho's version",
	Args:  cobra.NoArgs,
	Run:   run,
}

func run(cmd *cobra.Command, _ []string) {
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s [%s/%s]\n",
		os.Args[0], internal.Version, runtime.GOOS, runtime.GOARCH)
	internal.Chk(err)
}
