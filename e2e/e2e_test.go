package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/seabattle-go/internal/api"
	"github.com/mcoot/seabattle-go/internal/factory"
	"github.com/mcoot/seabattle-go/internal/protocol"
	"github.com/mcoot/seabattle-go/internal/services/registry"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "seabattle-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/seabattle")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the full server on a free port until the test ends
func startTestServer(t *testing.T) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	app, err := factory.New(context.Background(), factory.Config{
		Logger:   logger,
		Registry: registry.Config{BcryptCost: bcrypt.MinCost},
	})
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(app.Handler(""), api.DefaultServerConfig(), logger)
	server.OnShutdown(app.Hub.Close)
	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		_ = app.Close()
	})

	serverURL := "http://" + listener.Addr().String()
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// wsPlayer is one browser-like client speaking the game protocol. A
// background reader feeds inbox so reads never hit a deadline.
type wsPlayer struct {
	t     *testing.T
	conn  *websocket.Conn
	inbox chan protocol.Envelope
	index string
}

func connect(t *testing.T, serverURL string) *wsPlayer {
	t.Helper()
	url := "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	p := &wsPlayer{t: t, conn: conn, inbox: make(chan protocol.Envelope, 1024)}
	go func() {
		defer close(p.inbox)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if env, err := protocol.Decode(raw); err == nil {
				p.inbox <- env
			}
		}
	}()
	return p
}

func (p *wsPlayer) send(msgType string, payload any) {
	p.t.Helper()
	frame, err := protocol.Encode(msgType, payload)
	require.NoError(p.t, err)
	require.NoError(p.t, p.conn.WriteMessage(websocket.TextMessage, frame))
}

// next skips frames until one of msgType arrives and decodes it into v
func (p *wsPlayer) next(msgType string, v any) {
	p.t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case env, ok := <-p.inbox:
			require.True(p.t, ok, "connection closed waiting for %s", msgType)
			if env.Type != msgType {
				continue
			}
			if v != nil {
				require.NoError(p.t, env.Unmarshal(v))
			}
			return
		case <-timeout:
			p.t.Fatalf("no %s frame within 5s", msgType)
		}
	}
}

// drain returns every frame that arrives before the stream goes quiet
func (p *wsPlayer) drain(quiet time.Duration) []protocol.Envelope {
	var frames []protocol.Envelope
	for {
		select {
		case env, ok := <-p.inbox:
			if !ok {
				return frames
			}
			frames = append(frames, env)
		case <-time.After(quiet):
			return frames
		}
	}
}

func (p *wsPlayer) register(name string) {
	p.t.Helper()
	p.send(protocol.TypeReg, protocol.RegRequest{Name: name, Password: "pw-" + name})
	var reg protocol.RegResponse
	p.next(protocol.TypeReg, &reg)
	require.False(p.t, reg.Error, reg.ErrorText)
	p.index = reg.Index
}

func wireFleet() []protocol.WireShip {
	var ships []protocol.WireShip
	for _, s := range testutil.StandardFleet() {
		ships = append(ships, protocol.ShipFromModel(s))
	}
	return ships
}

func TestFullMatchOverWebsocketAndCLI(t *testing.T) {
	serverURL := startTestServer(t)
	cli := newCLIRunner(t, serverURL)

	alice := connect(t, serverURL)
	bob := connect(t, serverURL)
	alice.register("alice")
	bob.register("bob")

	// alice opens a room and the CLI sees it
	alice.send(protocol.TypeCreateRoom, struct{}{})
	var rooms []protocol.RoomEntry
	for len(rooms) == 0 {
		bob.next(protocol.TypeUpdateRoom, &rooms)
	}
	require.Len(t, rooms, 1)
	assert.Equal(t, "alice", rooms[0].RoomUsers[0].Name)

	out, err := cli.run("rooms")
	require.NoError(t, err, out)
	assert.Contains(t, out, rooms[0].RoomID)

	// bob joins; both get create_game
	bob.send(protocol.TypeAddUserToRoom, map[string]string{"indexRoom": rooms[0].RoomID})
	var aliceGame, bobGame protocol.CreateGameResponse
	alice.next(protocol.TypeCreateGame, &aliceGame)
	bob.next(protocol.TypeCreateGame, &bobGame)
	require.Equal(t, aliceGame.IDGame, bobGame.IDGame)
	gameID := aliceGame.IDGame

	// both fleets in
	alice.send(protocol.TypeAddShips, protocol.AddShipsRequest{
		GameID: protocol.FlexibleID(gameID), Ships: wireFleet(), IndexPlayer: protocol.FlexibleID(alice.index),
	})
	bob.send(protocol.TypeAddShips, protocol.AddShipsRequest{
		GameID: protocol.FlexibleID(gameID), Ships: wireFleet(), IndexPlayer: protocol.FlexibleID(bob.index),
	})
	var aliceStart, bobStart protocol.StartGameResponse
	alice.next(protocol.TypeStartGame, &aliceStart)
	bob.next(protocol.TypeStartGame, &bobStart)
	assert.Len(t, aliceStart.Ships, 10)
	require.Equal(t, aliceStart.CurrentPlayerIndex, bobStart.CurrentPlayerIndex)

	// whoever moves first sinks the other without missing
	shooter, target := alice, bob
	if aliceStart.CurrentPlayerIndex == bob.index {
		shooter, target = bob, alice
	}

	out, err = cli.run("game", gameID)
	require.NoError(t, err, out)
	assert.Contains(t, out, `"status": "in_progress"`)

	for _, cell := range testutil.FleetCells(testutil.StandardFleet()) {
		x, y := cell.X, cell.Y
		shooter.send(protocol.TypeAttack, protocol.AttackRequest{
			GameID: protocol.FlexibleID(gameID), X: &x, Y: &y, IndexPlayer: protocol.FlexibleID(shooter.index),
		})
		var attack protocol.AttackResponse
		target.next(protocol.TypeAttack, &attack)
		for attack.Position.X != x || attack.Position.Y != y {
			target.next(protocol.TypeAttack, &attack)
		}
		assert.NotEqual(t, "miss", attack.Status)
	}

	var finish protocol.FinishResponse
	target.next(protocol.TypeFinish, &finish)
	assert.Equal(t, shooter.index, finish.WinPlayer)

	// the winners table is visible through the API
	winnerName := "alice"
	if shooter == bob {
		winnerName = "bob"
	}
	require.Eventually(t, func() bool {
		out, err := cli.run("winners")
		if err != nil {
			return false
		}
		var list struct {
			Winners []struct {
				Name string `json:"name"`
				Wins int    `json:"wins"`
			} `json:"winners"`
		}
		if json.Unmarshal([]byte(out), &list) != nil || len(list.Winners) != 1 {
			return false
		}
		return list.Winners[0].Name == winnerName && list.Winners[0].Wins == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestDisconnectForfeitsGame(t *testing.T) {
	serverURL := startTestServer(t)

	alice := connect(t, serverURL)
	bob := connect(t, serverURL)
	alice.register("alice")
	bob.register("bob")

	alice.send(protocol.TypeCreateRoom, struct{}{})
	var rooms []protocol.RoomEntry
	for len(rooms) == 0 {
		bob.next(protocol.TypeUpdateRoom, &rooms)
	}
	bob.send(protocol.TypeAddUserToRoom, map[string]string{"indexRoom": rooms[0].RoomID})
	alice.next(protocol.TypeCreateGame, nil)

	require.NoError(t, bob.conn.Close())

	var finish protocol.FinishResponse
	alice.next(protocol.TypeFinish, &finish)
	assert.Equal(t, alice.index, finish.WinPlayer)
}

func TestSinglePlayBotAnswers(t *testing.T) {
	serverURL := startTestServer(t)

	alice := connect(t, serverURL)
	alice.register("alice")

	alice.send(protocol.TypeSinglePlay, struct{}{})
	var created protocol.CreateGameResponse
	alice.next(protocol.TypeCreateGame, &created)

	alice.send(protocol.TypeAddShips, protocol.AddShipsRequest{
		GameID: protocol.FlexibleID(created.IDGame), Ships: wireFleet(), IndexPlayer: protocol.FlexibleID(alice.index),
	})
	var start protocol.StartGameResponse
	alice.next(protocol.TypeStartGame, &start)

	// Fire at random until the turn passes to the bot
	for start.CurrentPlayerIndex == alice.index {
		alice.send(protocol.TypeRandomAttack, protocol.RandomAttackRequest{
			GameID: protocol.FlexibleID(created.IDGame), IndexPlayer: protocol.FlexibleID(alice.index),
		})
		for _, env := range alice.drain(300 * time.Millisecond) {
			var turn protocol.TurnResponse
			if env.Type == protocol.TypeTurn && env.Unmarshal(&turn) == nil {
				start.CurrentPlayerIndex = turn.CurrentPlayer
			}
		}
	}

	// The bot's shot arrives after its thinking delay
	var attack protocol.AttackResponse
	alice.next(protocol.TypeAttack, &attack)
	assert.Equal(t, start.CurrentPlayerIndex, attack.CurrentPlayer)
}
