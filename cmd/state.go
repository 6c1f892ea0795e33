package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ecomwatch/restock/pkg/state"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the persisted stock state for every watched key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("statefile")
		if path == "" {
			path = viper.GetString("watch.statefile")
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("state file not found: %s", path)
		}

		st := state.Load(path)
		keys := make([]string, 0, len(st))
		for k := range st {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tIN_STOCK\tLAST_CHECK\tREASON")
		for _, k := range keys {
			e := st[k]
			fmt.Fprintf(w, "%s\t%t\t%s\t%s\n", k, e.InStock, e.LastCheckUTC, e.LastReason)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().String("statefile", "", "Path to the JSON state file (default: watch.statefile from config)")
}
