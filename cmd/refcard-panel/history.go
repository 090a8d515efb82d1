// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refcard-panel/internal/history"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or export recorded uploads",
	Long: `History reads the submission log kept when history.enabled is set and
lists the most recent uploads, newest first. Use --export to write the
matching submissions to export.yaml or export.json in the history directory.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("game", "", "filter by game")
	historyCmd.Flags().String("status", "", "filter by status: succeeded, failed, cancelled, superseded")
	historyCmd.Flags().Int("limit", 20, "maximum number of submissions to list")
	historyCmd.Flags().String("export", "", "export format: yaml or json")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	export, _ := cmd.Flags().GetString("export")

	store, err := history.Open(cfg.History.Dir)
	if err != nil {
		return err
	}
	defer store.Close()

	opts := history.QueryOptions{
		Game:   game,
		Status: types.SubmissionStatus(status),
		Limit:  limit,
	}
	ctx := context.Background()

	switch export {
	case "":
	case "yaml":
		path, err := store.ExportYAML(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Exported:", path)
		return nil
	case "json":
		path, err := store.ExportJSON(ctx, opts)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Exported:", path)
		return nil
	default:
		return fmt.Errorf("unknown export format %q: use yaml or json", export)
	}

	subs, err := store.List(ctx, opts)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Fprintln(os.Stderr, "No submissions recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tGAME\tSTATUS\tHTTP\tFILES\tDURATION")
	for _, s := range subs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.StartedAt.Local().Format(time.DateTime), s.Game, s.Status, s.HTTPStatus,
			strings.Join(s.Files, ","), s.Duration)
	}
	return tw.Flush()
}
