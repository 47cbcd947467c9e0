package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"cursor-guide/src/clipboard"
	"cursor-guide/src/config"
	"cursor-guide/src/runtimeinit"
	"cursor-guide/src/singleinstance"
)

var errNoResident = errors.New("cursor-guide is not running")

type mainOptions struct {
	toggle       bool
	show         bool
	hide         bool
	reload       bool
	status       bool
	hidden       bool
	verbose      bool
	settingsPath string
	hotkey       string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"cursor-guide"}
	}

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.ExecuteContext(context.Background())
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cursor-guide",
		Short:         "Draw crosshair guide lines through the mouse pointer",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(cmd.Context(), *opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.toggle, "toggle", false, "Toggle the guide in the running instance")
	f.BoolVar(&opts.show, "show", false, "Show the guide in the running instance")
	f.BoolVar(&opts.hide, "hide", false, "Hide the guide in the running instance")
	f.BoolVar(&opts.reload, "reload", false, "Make the running instance re-read its settings file")
	f.BoolVar(&opts.status, "status", false, "Print whether the guide is visible")
	f.BoolVar(&opts.hidden, "hidden", false, "Start without showing the guide")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	f.StringVar(&opts.settingsPath, "settings", "", "Path to the settings file (overrides SETTINGS_FILE)")
	f.StringVar(&opts.hotkey, "hotkey", "", "Toggle shortcut (overrides HOTKEY)")
	cmd.MarkFlagsMutuallyExclusive("toggle", "show", "hide", "reload", "status")

	return cmd
}

// selectedCommand returns the delegation command chosen on the command line.
func selectedCommand(opts mainOptions) (singleinstance.Command, bool) {
	switch {
	case opts.toggle:
		return singleinstance.CmdToggle, true
	case opts.show:
		return singleinstance.CmdShow, true
	case opts.hide:
		return singleinstance.CmdHide, true
	case opts.reload:
		return singleinstance.CmdReload, true
	case opts.status:
		return singleinstance.CmdStatus, true
	}
	return "", false
}

func runWithOptions(ctx context.Context, opts mainOptions, out io.Writer) error {
	command, delegate := selectedCommand(opts)

	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			SettingsFileOverride: opts.settingsPath,
			HotkeyOverride:       opts.hotkey,
		},
		Verbose:       opts.verbose,
		SkipClipboard: delegate,
	})
	if err != nil {
		return err
	}

	if !delegate {
		return runResident(ctx, cfg, cfg.StartVisible && !opts.hidden)
	}

	sendCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return handleCommandWithDelegation(sendCtx, command, singleinstance.NewClient(), out, func() error {
		// Show and toggle on an idle machine mean "start with the guide visible".
		if err := clipboard.Init(); err != nil {
			log.Warn().Err(err).Msg("clipboard unavailable")
		}
		return runResident(ctx, cfg, true)
	})
}

// handleCommandWithDelegation sends command to a resident. Without one,
// TOGGLE and SHOW start a resident via fallback; other commands fail.
func handleCommandWithDelegation(ctx context.Context, command singleinstance.Command, client singleinstance.Client, out io.Writer, fallback func() error) error {
	delegated, reply, err := client.Send(ctx, command)
	if err != nil {
		if delegated {
			return fmt.Errorf("resident rejected %s: %w", command, err)
		}
		log.Warn().Err(err).Msg("delegation failed")
	}
	if delegated {
		log.Info().Str("command", string(command)).Msg("delegated to resident")
		if reply != "" {
			fmt.Fprintln(out, reply)
		}
		return nil
	}

	switch command {
	case singleinstance.CmdToggle, singleinstance.CmdShow:
		log.Info().Msg("no resident detected, starting one")
		return fallback()
	case singleinstance.CmdStatus:
		fmt.Fprintln(out, "not running")
		return nil
	}
	return errNoResident
}

// normalizeLegacyArgs maps single-dash long flags (-toggle) to --toggle.
func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	long := []string{"toggle", "show", "hide", "reload", "status", "hidden", "verbose", "settings", "hotkey"}
	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		if !strings.HasPrefix(arg, "-") || strings.HasPrefix(arg, "--") {
			continue
		}
		for _, name := range long {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}
