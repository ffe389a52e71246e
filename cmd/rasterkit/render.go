package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/rasterkit/internal/app/pipeline"
	"github.com/alexisbeaulieu97/rasterkit/internal/config"
	"github.com/alexisbeaulieu97/rasterkit/internal/model"
	"github.com/alexisbeaulieu97/rasterkit/internal/tui"
)

type renderOptions struct {
	ConfigPath      string
	Only            []string
	OutDir          string
	Workers         int
	ContinueOnError bool
	NoCache         bool
	Verbose         bool
	NonInteractive  bool
}

var renderCmdRunner = runRender

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the outputs of a scene document",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			opts.NonInteractive = !term.IsTerminal(int(os.Stdout.Fd()))

			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}
			if opts.Workers < 0 {
				return fmt.Errorf("--workers must not be negative")
			}

			return renderCmdRunner(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to scene document (.yaml or .hcl)")
	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "Render only these output ids")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "Base directory for relative output paths")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Number of outputs rendered at once")
	cmd.Flags().BoolVar(&opts.ContinueOnError, "continue-on-error", false, "Keep rendering after an output fails")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Decode every image occurrence separately")
	cmd.MarkFlagRequired("config") //nolint:errcheck

	return cmd
}

func runRender(ctx context.Context, stdout, stderr io.Writer, opts renderOptions) error {
	doc, err := config.Parse(opts.ConfigPath)
	if err != nil {
		return err
	}

	verbose := opts.Verbose || doc.Settings.Verbose
	interactive := !opts.NonInteractive
	log, err := newLogger(verbose, interactive, stderr)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state := tui.NewModel(doc.Name, selectedIDs(doc, opts.Only))
	req := pipeline.RenderRequest{
		Document:        doc,
		Only:            opts.Only,
		OutDir:          opts.OutDir,
		ContinueOnError: opts.ContinueOnError,
		Workers:         opts.Workers,
		NoCache:         opts.NoCache,
	}
	svc := pipeline.NewService(log)

	if !interactive {
		req.OnResult = func(r model.OutputResult) {
			dispatchTuiMessage(&state, tui.ResultMsg(r))
		}
		_, runErr := svc.Render(ctx, req)
		dispatchTuiMessage(&state, tui.RunFinishedMsg{Err: runErr})
		fmt.Fprint(stdout, state.View())
		return runErr
	}

	program := tea.NewProgram(state, tea.WithOutput(stdout))
	req.OnResult = func(r model.OutputResult) {
		program.Send(tui.ResultMsg(r))
	}

	var programErr error
	var cancelled bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		final, err := program.Run()
		programErr = err
		if m, ok := final.(tui.Model); ok && m.Cancelled() {
			cancelled = true
			cancel()
		}
	}()

	_, runErr := svc.Render(ctx, req)
	program.Send(tui.RunFinishedMsg{Err: runErr})
	<-done

	if programErr != nil {
		return programErr
	}
	if cancelled && errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("render cancelled")
	}
	return runErr
}

// selectedIDs lists the outputs a run will report on, in document order.
func selectedIDs(doc *config.Document, only []string) []string {
	wanted := make(map[string]bool, len(only))
	for _, id := range only {
		wanted[id] = true
	}
	var ids []string
	for _, out := range doc.Outputs {
		if len(only) == 0 || wanted[out.ID] {
			ids = append(ids, out.ID)
		}
	}
	return ids
}

func dispatchTuiMessage(state *tui.Model, msg tea.Msg) {
	updated, _ := state.Update(msg)
	if m, ok := updated.(tui.Model); ok {
		*state = m
	}
}
