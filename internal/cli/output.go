package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RoomList:
		o.printRooms(v)
	case WinnerList:
		o.printWinners(v)
	case Game:
		o.printGame(v)
	case HealthResult:
		o.printHealthResult(v)
	case Frame:
		o.printFrame(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsBot bool   `json:"is_bot,omitempty"`
}

// Room response type
type Room struct {
	ID        string    `json:"id"`
	Host      Player    `json:"host"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomList response type
type RoomList struct {
	Rooms []Room `json:"rooms"`
}

// Winner response type
type Winner struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// WinnerList response type
type WinnerList struct {
	Winners []Winner `json:"winners"`
}

// Game response type
type Game struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	Players     []Player `json:"players"`
	CurrentTurn string   `json:"current_turn,omitempty"`
	Winner      *string  `json:"winner"`
	Forfeit     bool     `json:"forfeit,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status        string `json:"status"`
	OpenRooms     int    `json:"open_rooms"`
	Games         int    `json:"games"`
	OnlinePlayers int    `json:"online_players"`
	Connections   int    `json:"connections"`
}

// Frame is one websocket message seen by watch
type Frame struct {
	Time time.Time       `json:"time"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (o *Output) printRooms(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Fprintln(o.w, "No open rooms")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOM\tHOST\tWAITING SINCE")
	for _, r := range l.Rooms {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Host.Name, r.CreatedAt.Format(time.DateTime))
	}
	_ = tw.Flush()
}

func (o *Output) printWinners(l WinnerList) {
	if len(l.Winners) == 0 {
		fmt.Fprintln(o.w, "No winners yet")
		return
	}
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tWINS")
	for i, w := range l.Winners {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", i+1, w.Name, w.Wins)
	}
	_ = tw.Flush()
}

func (o *Output) printGame(g Game) {
	fmt.Fprintf(o.w, "Game: %s\n", g.ID)
	fmt.Fprintf(o.w, "Status: %s\n", g.Status)

	names := make([]string, len(g.Players))
	for i, p := range g.Players {
		names[i] = p.Name
		if p.IsBot {
			names[i] += " [bot]"
		}
	}
	fmt.Fprintf(o.w, "Players: %s\n", strings.Join(names, " vs "))

	if g.CurrentTurn != "" {
		fmt.Fprintf(o.w, "Turn: %s\n", o.playerName(g, g.CurrentTurn))
	}
	if g.Winner != nil {
		suffix := ""
		if g.Forfeit {
			suffix = " (forfeit)"
		}
		fmt.Fprintf(o.w, "Winner: %s%s\n", o.playerName(g, *g.Winner), suffix)
	}
}

func (o *Output) playerName(g Game, id string) string {
	for _, p := range g.Players {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Open rooms: %d\n", h.OpenRooms)
	fmt.Fprintf(o.w, "Games: %d\n", h.Games)
	fmt.Fprintf(o.w, "Online players: %d\n", h.OnlinePlayers)
	fmt.Fprintf(o.w, "Connections: %d\n", h.Connections)
}

func (o *Output) printFrame(f Frame) {
	data := string(f.Data)
	// Truncate data if it's too long for display
	if len(data) > 100 {
		data = data[:100] + "..."
	}
	fmt.Fprintf(o.w, "[%s] %s: %s\n", f.Time.Format(time.DateTime), f.Type, data)
}
