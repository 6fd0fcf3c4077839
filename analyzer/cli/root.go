// Package cli implements the dialoglsp command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abiiranathan/dialog-template-lsp/analyzer/config"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/logging"
	"github.com/abiiranathan/dialog-template-lsp/analyzer/validator"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// exitError carries a process exit status through cobra.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// app is the state shared by all commands of one invocation.
type app struct {
	out, errOut io.Writer
	configFile  string
	cfg         *config.Config
	log         zerolog.Logger
}

func (a *app) locator() (validator.Locator, error) {
	return validator.LocatorByName(a.cfg.Locator)
}

// NewRootCommand builds the command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "dialoglsp",
		Short: "Validate and preview localized override-dialog templates",
		Long: `dialoglsp checks localized override-dialog templates against the limits of
the policy platform and previews how the dialog will look.

Limits:
  Title           75 characters
  Body           800 characters
  Options          3 entries
  Each option    100 characters

Examples:
  dialoglsp validate dialog.json              Report limit violations
  dialoglsp render --lang fr-FR dialog.json   Print the French preview as HTML
  dialoglsp watch dialog.json                 Re-validate and re-render on save
  dialoglsp preview dialog.json               Serve a live preview in the browser
  dialoglsp new --lang en-US,fr-FR            Create a template skeleton`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.LoadOptions{File: a.configFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			a.cfg = cfg

			log, err := logging.New(logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Out:    a.errOut,
			})
			if err != nil {
				return err
			}
			a.log = log
			if cfg.File != "" {
				a.log.Debug().Str("file", cfg.File).Msg("configuration loaded")
			}
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "configuration file (default ./dialoglsp.yaml)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error, disabled")
	flags.String("log-format", "", "log format: console or json")

	root.AddCommand(
		newValidateCommand(a),
		newRenderCommand(a),
		newNewCommand(a),
		newLanguagesCommand(a),
		newTokensCommand(a),
		newWatchCommand(a),
		newPreviewCommand(a),
	)
	return root
}

// Execute runs the command line and returns the process exit status.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(os.Stdout, os.Stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(os.Stderr, ee.msg)
		}
		return ee.code
	}
	fmt.Fprintln(os.Stderr, "dialoglsp:", err)
	return 1
}
