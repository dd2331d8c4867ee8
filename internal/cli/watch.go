package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch <code>",
		Short: "Stream session snapshots over websocket",
		Long: `Connect to the session's websocket endpoint and print each snapshot
the server pushes. A snapshot arrives immediately on connect and after
every mutation (registration, submission, selection, reveal).

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			return watchSession(code, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output snapshots as JSON lines")

	return cmd
}

// watchState is the server state push as decoded by the CLI
type watchState struct {
	Type      string `json:"type"`
	Session   string `json:"session"`
	Sentences []struct {
		ID       int64  `json:"id"`
		Text     string `json:"text"`
		Revealed bool   `json:"revealed"`
	} `json:"sentences"`
	Participants     []string `json:"participants"`
	ActiveSentenceID *int64   `json:"activeSentenceId"`
}

func watchSession(code string, jsonOutput bool) error {
	wsURL := websocketURL(cfg.ServerURL, code)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil {
			defer func() { _ = resp.Body.Close() }()
			return fmt.Errorf("connection failed: %s", resp.Status)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Connected to session %s\n", code)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			// Interrupt closes the connection out from under the read
			if strings.Contains(err.Error(), "use of closed network connection") {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		printState(data, jsonOutput)
	}
}

func printState(data []byte, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(string(data))
		return
	}

	var state watchState
	if err := json.Unmarshal(data, &state); err != nil || state.Type != "state" {
		return
	}

	revealed := 0
	for _, s := range state.Sentences {
		if s.Revealed {
			revealed++
		}
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	active := "-"
	if state.ActiveSentenceID != nil {
		active = fmt.Sprintf("#%d", *state.ActiveSentenceID)
	}
	fmt.Printf("[%s] participants=%d sentences=%d revealed=%d active=%s\n",
		timestamp, len(state.Participants), len(state.Sentences), revealed, active)
}

// websocketURL converts the configured HTTP server URL into the
// websocket endpoint for a session
func websocketURL(serverURL, code string) string {
	base := strings.TrimSuffix(serverURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/session/" + code + "/ws"
}
