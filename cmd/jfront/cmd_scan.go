package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java/scanner"
)

func newScanCmd(a *app) *cobra.Command {
	var workers int
	var include []string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scan <path>",
		Short: "Check every Java source below a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("workers") {
				a.config.Scan.Workers = workers
			}
			if cmd.Flags().Changed("include") {
				a.config.Scan.Include = include
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			sc := scanner.New(
				scanner.WithWorkers(a.config.Scan.Workers),
				scanner.WithAnalysis(a.checks()...),
			)
			defer sc.Close()

			result := sc.Scan(ctx, scanner.Request{Path: args[0], Include: a.config.Scan.Include})
			if err := a.emit(format.Scan(result)); err != nil {
				return err
			}
			if result.Status == scanner.StatusFailed {
				return errors.New(result.Error)
			}
			if len(result.Failed()) > 0 {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "files analyzed at once (default from config, else CPU count)")
	cmd.Flags().StringSliceVar(&include, "include", nil, "file name patterns to check (default *.java)")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 0, "give up after this long")

	return cmd
}
