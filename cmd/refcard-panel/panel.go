// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refcard-panel/internal/picker"
	"github.com/pdiddy/refcard-panel/internal/terminal"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open an interactive upload panel for one game",
	Long: `Panel opens an interactive session over one game's upload panel. Add and
remove pending files, generate as often as needed, and save the cards from
the latest response. Starting a new generate cancels one still in flight.`,
	RunE: runPanel,
}

func init() {
	panelCmd.Flags().String("game", "fs2020", "game whose endpoint receives the files")
	panelCmd.Flags().Bool("raw", false, "print response markup instead of a summary")

	rootCmd.AddCommand(panelCmd)
}

func runPanel(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	raw, _ := cmd.Flags().GetBool("raw")

	in := bufio.NewReader(os.Stdin)
	view := terminal.NewView(os.Stdout, raw)
	p, cleanup, err := newPanel(cfg, game, view, picker.NewPrompt(in, os.Stdout))
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return terminal.NewShell(p, view, in, os.Stdout).Run(ctx)
}
