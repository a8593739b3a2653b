package main

import (
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/odrlplan/policyplan/internal/httpapi"
)

var (
	serveAddr      string
	serveBoundAct  []string
	serveExtraKeys []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the policyplan debug HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	serveCmd.Flags().StringSliceVar(&serveBoundAct, "bound-action", nil, "action type to treat as bound for every request (repeatable)")
	serveCmd.Flags().StringSliceVar(&serveExtraKeys, "bound-key", nil, "left-operand key to treat as bound for every request (repeatable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.Default()
	handler := httpapi.NewHandler(httpapi.Config{
		BoundActions: serveBoundAct,
		ExtraKeys:    serveExtraKeys,
		Logger:       logger,
	})

	logger.Info("starting policyplan server", "addr", serveAddr)
	return http.ListenAndServe(serveAddr, handler)
}
