// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/refcard-panel/internal/panel"
	"github.com/pdiddy/refcard-panel/internal/picker"
	"github.com/pdiddy/refcard-panel/internal/results"
)

const helpText = `commands:
  add <path|glob|dir>...  add files to the pending list
  pick                    choose files at the files> prompt
  ls                      list pending files
  rm <n>                  remove pending file n
  generate                upload pending files
  wait                    wait for the last upload to finish
  show                    print the results markup
  save <dir>              save generated cards and markup to dir
  help                    show this help
  quit                    leave the shell`

// Shell reads commands and drives one panel.
type Shell struct {
	panel *panel.Panel
	view  *View
	in    *bufio.Reader
	out   io.Writer
}

// NewShell returns a Shell over p and v. in should be the same reader the
// panel's picker uses so prompts and commands consume lines in order.
func NewShell(p *panel.Panel, v *View, in *bufio.Reader, out io.Writer) *Shell {
	return &Shell{panel: p, view: v, in: in, out: out}
}

// Run reads commands until quit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "%s panel, posting to %s. Type help for commands.\n", s.panel.Game(), s.panel.URL())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s> ", s.panel.Game())
		line, err := s.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		quit, cmdErr := s.Exec(ctx, line)
		if cmdErr != nil {
			fmt.Fprintf(s.out, "error: %v\n", cmdErr)
		}
		if quit {
			return nil
		}
	}
}

// Exec runs a single command line. It reports whether the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "add":
		if len(args) == 0 {
			return false, errors.New("add needs at least one path")
		}
		paths, err := picker.Expand(args...)
		if err != nil {
			return false, err
		}
		files, err := picker.ReadFiles(paths...)
		if err != nil {
			return false, err
		}
		s.panel.FilesChosen(files...)
	case "pick":
		return false, s.panel.AddRequested(ctx)
	case "ls":
		s.list()
	case "rm":
		return false, s.remove(args)
	case "generate":
		s.panel.GenerateRequested(ctx)
	case "wait":
		return false, s.wait(ctx)
	case "show":
		fmt.Fprintln(s.out, s.view.Results())
	case "save":
		if len(args) != 1 {
			return false, errors.New("save needs a directory")
		}
		return false, s.save(args[0])
	case "help":
		fmt.Fprintln(s.out, helpText)
	case "quit", "exit":
		return true, nil
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, nil
}

func (s *Shell) list() {
	entries := s.view.Entries()
	if len(entries) == 0 {
		fmt.Fprintln(s.out, "no pending files")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, e.Label)
	}
}

func (s *Shell) remove(args []string) error {
	if len(args) != 1 {
		return errors.New("rm needs an entry number")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad entry number %q", args[0])
	}
	entries := s.view.Entries()
	if n < 1 || n > len(entries) {
		return fmt.Errorf("no entry %d", n)
	}
	s.panel.EntryClicked(entries[n-1].ID)
	return nil
}

func (s *Shell) wait(ctx context.Context) error {
	r := s.panel.Last()
	if r == nil {
		return errors.New("nothing generated yet")
	}
	sub, err := r.Wait(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "request %d %s in %s\n", sub.Seq, sub.Status, sub.Duration.Round(time.Millisecond))
	if sub.Error != "" {
		fmt.Fprintf(s.out, "  %s\n", sub.Error)
	}
	return nil
}

func (s *Shell) save(dir string) error {
	markup := s.view.Results()
	if markup == "" {
		return errors.New("no results to save")
	}
	images, err := results.ExtractImages(markup)
	if err != nil {
		return err
	}
	paths, err := results.SaveImages(dir, s.panel.Game(), images)
	if err != nil {
		return err
	}
	page, err := results.SaveMarkup(dir, s.panel.Game(), markup)
	if err != nil {
		return err
	}
	for _, p := range append(paths, page) {
		fmt.Fprintf(s.out, "saved: %s\n", p)
	}
	return nil
}
