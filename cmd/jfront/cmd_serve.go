package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/jfront/java/codebase"
	"github.com/dhamidi/jfront/java/scanner"
	"github.com/dhamidi/jfront/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis pipeline as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.config.Server.Addr = addr
			}
			sc := scanner.New(
				scanner.WithWorkers(a.config.Scan.Workers),
				scanner.WithAnalysis(a.checks()...),
			)
			srv := server.NewServer(
				server.WithAnalysis(a.checks()...),
				server.WithScanner(sc),
			)
			defer srv.Close()

			displayAddr := a.config.Server.Addr
			if strings.HasPrefix(displayAddr, ":") {
				displayAddr = "localhost" + displayAddr
			}
			fmt.Fprintf(a.out, "Serving %s at http://%s%s\n", version, displayAddr, server.PathPrefix)
			return http.ListenAndServe(a.config.Server.Addr, srv)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")

	return cmd
}

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ls := codebase.NewLSPServer(version, a.checks()...)
			return ls.RunStdio()
		},
	}
}
