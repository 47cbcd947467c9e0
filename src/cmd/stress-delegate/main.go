package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"cursor-guide/src/singleinstance"
)

type stressOptions struct {
	n        int
	command  string
	deadline time.Duration
}

type tally struct {
	ok, busy, notRunning, errs int32
}

func (t *tally) String() string {
	return fmt.Sprintf("ok=%d busy=%d not_running=%d err=%d", t.ok, t.busy, t.notRunning, t.errs)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-delegate",
		Short:         "Stress test command delegation to a running cursor-guide",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().StringVar(&opts.command, "command", "status", "toggle|show|hide|reload|status")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")

	return cmd
}

func runWithOptions(opts stressOptions) error {
	command, err := singleinstance.ParseCommand(opts.command)
	if err != nil {
		return err
	}
	start := time.Now()
	t := stress(opts.n, opts.deadline, command, singleinstance.NewClient)
	fmt.Fprintf(os.Stdout, "launched=%d %s elapsed=%s\n", opts.n, t, time.Since(start))
	return nil
}

// stress sends command from n concurrent clients and counts the outcomes.
func stress(n int, deadline time.Duration, command singleinstance.Command, newClient func() singleinstance.Client) *tally {
	var wg sync.WaitGroup
	t := &tally{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), deadline)
			defer cancel()
			delegated, _, err := newClient().Send(ctx, command)
			switch {
			case err != nil && strings.Contains(strings.ToLower(err.Error()), "busy"):
				atomic.AddInt32(&t.busy, 1)
			case err != nil:
				atomic.AddInt32(&t.errs, 1)
			case !delegated:
				atomic.AddInt32(&t.notRunning, 1)
			default:
				atomic.AddInt32(&t.ok, 1)
			}
		}()
	}
	wg.Wait()
	return t
}
