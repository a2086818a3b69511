package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

const defaultBaseURL = "http://localhost:8080"

type options struct {
	baseURL string
	client  *http.Client
}

func newRootCmd() *cobra.Command {
	opts := &options{client: &http.Client{Timeout: 2 * time.Minute}}

	root := &cobra.Command{
		Use:           "escaperoom",
		Short:         "Solve and watch the escape rooms from a terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "api", defaultBaseURL, "API base URL")

	root.AddCommand(
		newSolveCmd(opts),
		newBoardCmd(opts),
		newWatchCmd(opts),
	)
	return root
}
