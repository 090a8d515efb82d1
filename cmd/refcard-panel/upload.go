// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/refcard-panel/internal/picker"
	"github.com/pdiddy/refcard-panel/internal/results"
	"github.com/pdiddy/refcard-panel/internal/terminal"
	"github.com/pdiddy/refcard-panel/pkg/types"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Upload binding files once and write the generated cards",
	Long: `Upload adds every given file (paths, globs, or directories) to a fresh
panel for the chosen game, submits them as one multipart request, and waits
for the response. With --out the embedded cards and the full markup are
saved to that directory; otherwise the markup is written to stdout.

Adding the same file twice uploads it twice.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().String("game", "fs2020", "game whose endpoint receives the files")
	uploadCmd.Flags().String("out", "", "directory for generated cards (default: panel.out_dir, else stdout)")
	uploadCmd.Flags().Bool("sanitize", false, "strip active content from the response before output")
	uploadCmd.Flags().Bool("log", false, "print the server's processing log")

	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	game, _ := cmd.Flags().GetString("game")
	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = cfg.Panel.OutDir
	}
	c := cfg
	if sanitize, _ := cmd.Flags().GetBool("sanitize"); sanitize {
		c.Panel.Trust = types.TrustSanitized
	}
	showLog, _ := cmd.Flags().GetBool("log")

	paths, err := picker.Expand(args...)
	if err != nil {
		return err
	}
	files, err := picker.ReadFiles(paths...)
	if err != nil {
		return err
	}

	view := terminal.NewView(os.Stderr, false)
	p, cleanup, err := newPanel(c, game, view, nil)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	p.FilesChosen(files...)
	sub, err := p.GenerateRequested(ctx).Wait(context.Background())
	if err != nil {
		return err
	}
	if sub.Status != types.SubmissionSucceeded {
		return fmt.Errorf("upload to %s %s: %s", sub.Endpoint, sub.Status, sub.Error)
	}

	markup := view.Results()
	if showLog {
		lines, err := results.ExtractLog(markup)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Fprintf(os.Stderr, "server: %s\n", l)
		}
	}

	if outDir == "" {
		fmt.Fprintln(os.Stdout, markup)
		return nil
	}
	return saveResults(outDir, game, markup)
}

func saveResults(dir, game, markup string) error {
	images, err := results.ExtractImages(markup)
	if err != nil {
		return err
	}
	paths, err := results.SaveImages(dir, game, images)
	if err != nil {
		return err
	}
	page, err := results.SaveMarkup(dir, game, markup)
	if err != nil {
		return err
	}
	for _, p := range append(paths, page) {
		fmt.Fprintf(os.Stdout, "saved: %s\n", p)
	}
	return nil
}
