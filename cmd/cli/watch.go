package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *options) *cobra.Command {
	var (
		tcpAddr   string
		pretty    bool
		reconnect bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream room results and labyrinth steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			run := func() error {
				if tcpAddr != "" {
					return watchTCP(out, tcpAddr, pretty)
				}
				wsURL, err := websocketURL(opts.baseURL, "/ws")
				if err != nil {
					return err
				}
				return watchWebSocket(out, wsURL, pretty)
			}

			for {
				err := run()
				if !reconnect {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "disconnected: %v\n", err)
				time.Sleep(1 * time.Second)
			}
		},
	}
	cmd.Flags().StringVar(&tcpAddr, "tcp", "", "read from the TCP sync port (e.g. 127.0.0.1:7070) instead of /ws")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "pretty print JSON events")
	cmd.Flags().BoolVar(&reconnect, "reconnect", false, "reconnect after a disconnect")
	return cmd
}

func watchTCP(out io.Writer, addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		printEvent(out, sc.Bytes(), pretty)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func watchWebSocket(out io.Writer, wsURL string, pretty bool) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		printEvent(out, msg, pretty)
	}
}

// printEvent prints a JSON line, indented when pretty; anything that is not
// JSON goes out raw.
func printEvent(out io.Writer, line []byte, pretty bool) {
	if !pretty {
		fmt.Fprintln(out, string(line))
		return
	}
	var obj map[string]any
	if err := json.Unmarshal(line, &obj); err != nil {
		fmt.Fprintln(out, string(line))
		return
	}
	b, _ := json.MarshalIndent(obj, "", "  ")
	fmt.Fprintln(out, string(b))
}
