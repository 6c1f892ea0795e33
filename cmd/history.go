package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ecomwatch/restock/pkg/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded observations (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbPath, _ := cmd.Flags().GetString("dbpath")
		limit, _ := cmd.Flags().GetInt("limit")
		key, _ := cmd.Flags().GetString("key")
		if dbPath == "" {
			dbPath = "restock.sqlite"
		}
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database not found: %s", dbPath)
		}
		db, err := history.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := context.Background()
		var rows []history.Row
		if transitions, _ := cmd.Flags().GetBool("transitions"); transitions {
			rows, err = db.ListTransitions(ctx, key, limit)
		} else {
			rows, err = db.ListRecent(ctx, key, limit)
		}
		if err != nil {
			return err
		}
		for _, r := range rows {
			ts := r.CheckedAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  in_stock=%t  %s  %s\n", ts, r.InStock, r.Reason, r.WatchKey)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: restock.sqlite in CWD)")
	historyCmd.Flags().Int("limit", 50, "Number of observations to show")
	historyCmd.Flags().String("key", "", "Only show observations for this watch key")
	historyCmd.Flags().Bool("transitions", false, "Only show observations where in_stock flipped")
}
