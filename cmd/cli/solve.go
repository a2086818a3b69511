package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"escaperoom/pkg/models"
)

func newSolveCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "solve <room>",
		Short: "Trigger a room and print what it wrote",
		Long:  "Trigger a room (1, 2, 3 or solveRoomN). Room 3 takes one second per labyrinth step.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			room, err := models.ParseRoomID(args[0])
			if err != nil {
				return err
			}

			endpoint := fmt.Sprintf("%s/rooms/%d/solve", opts.baseURL, int(room))
			var res models.Result
			if err := doJSON(cmd.Context(), opts.client, http.MethodPost, endpoint, nil, &res); err != nil {
				return fmt.Errorf("solve %s: %w", room.Trigger(), err)
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", res.Output, res.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newBoardCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Print the current text of every output element",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.JoinPath(opts.baseURL, "rooms", "results")
			if err != nil {
				return fmt.Errorf("invalid base url: %w", err)
			}

			var snap struct {
				Items []models.Result `json:"items"`
			}
			if err := doJSON(cmd.Context(), opts.client, http.MethodGet, u, nil, &snap); err != nil {
				return err
			}
			if len(snap.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no room solved yet")
				return nil
			}
			for _, r := range snap.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", r.Output, r.Text)
			}
			return nil
		},
	}
}
