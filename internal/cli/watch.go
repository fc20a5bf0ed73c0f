package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/seabattle-go/internal/protocol"
)

func newWatchCmd() *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream websocket broadcasts from the server",
		Long: `Connect to the server's websocket endpoint and print every frame it sends.

Room list and winners table broadcasts are sent to every connection. With
--name and --password the watcher also registers, which makes the server
send a fresh room list and winners table straight away.

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, NewOutput(cfg.Output, cmd.OutOrStdout()), name, password)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Register as this player before watching")
	cmd.Flags().StringVar(&password, "password", "", "Password for --name")

	return cmd
}

func watch(ctx context.Context, out *Output, name, password string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, client.WebsocketURL(), nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	if name != "" {
		frame, err := protocol.Encode(protocol.TypeReg, protocol.RegRequest{Name: name, Password: password})
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return fmt.Errorf("register: %w", err)
		}
	}

	if out.format != "json" {
		out.PrintMessage("Connected to " + client.WebsocketURL())
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if out.format != "json" {
					out.PrintMessage("Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		frame, err := decodeFrame(raw)
		if err != nil {
			if cfg.Verbose {
				out.PrintError(err)
			}
			continue
		}
		out.Print(frame)
	}
}

func decodeFrame(raw []byte) (Frame, error) {
	env, err := protocol.Decode(raw)
	if err != nil {
		return Frame{}, err
	}
	var data json.RawMessage
	if err := env.Unmarshal(&data); err != nil {
		return Frame{}, err
	}
	if len(data) == 0 {
		return Frame{}, errors.New("frame without data")
	}
	return Frame{Time: time.Now(), Type: env.Type, Data: data}, nil
}
