package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/seabattle-go/internal/dependencies/mocks"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

type received struct {
	connID string
	raw    string
}

type recordingHandler struct {
	messages    chan received
	disconnects chan string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		messages:    make(chan received, 16),
		disconnects: make(chan string, 16),
	}
}

func (h *recordingHandler) HandleMessage(ctx context.Context, connID string, raw []byte) {
	if string(raw) == "boom" {
		panic("handler exploded")
	}
	h.messages <- received{connID: connID, raw: string(raw)}
}

func (h *recordingHandler) HandleDisconnect(ctx context.Context, connID string) {
	h.disconnects <- connID
}

type HubSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	hub     *Hub
	handler *recordingHandler
	server  *httptest.Server
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.hub = NewHub(DefaultConfig(), s.random, testutil.NopLogger())
	s.handler = newRecordingHandler()
	s.server = httptest.NewServer(s.hub.Handler(s.handler))
}

func (s *HubSuite) TearDownTest() {
	s.hub.Close()
	s.server.Close()
}

func (s *HubSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *HubSuite) send(conn *websocket.Conn, text string) received {
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(text)))
	select {
	case msg := <-s.handler.messages:
		return msg
	case <-time.After(2 * time.Second):
		s.FailNow("message not delivered to handler")
		return received{}
	}
}

func (s *HubSuite) read(conn *websocket.Conn) string {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, data, err := conn.ReadMessage()
	s.Require().NoError(err)
	return string(data)
}

func (s *HubSuite) TestMessagesCarryConnectionID() {
	s.random.QueueUUID("conn-a")
	conn := s.dial()

	msg := s.send(conn, `{"type":"create_room"}`)
	s.Equal("conn-a", msg.connID)
	s.Equal(`{"type":"create_room"}`, msg.raw)
	s.Equal(1, s.hub.ClientCount())
}

func (s *HubSuite) TestSendToBoundPlayer() {
	s.random.QueueUUID("conn-a", "conn-b")
	a := s.dial()
	b := s.dial()
	s.send(a, "hello")
	s.send(b, "hello")

	s.hub.Bind("conn-b", "player-bob")

	s.True(s.hub.SendTo("player-bob", []byte("for bob")))
	s.Equal("for bob", s.read(b))
	s.False(s.hub.SendTo("player-nobody", []byte("lost")))
}

func (s *HubSuite) TestSendConn() {
	s.random.QueueUUID("conn-a")
	a := s.dial()
	s.send(a, "hello")

	s.True(s.hub.SendConn("conn-a", []byte("direct")))
	s.Equal("direct", s.read(a))
	s.False(s.hub.SendConn("conn-missing", []byte("lost")))
}

func (s *HubSuite) TestBroadcastReachesEveryone() {
	a := s.dial()
	b := s.dial()
	s.send(a, "hello")
	s.send(b, "hello")

	s.hub.Broadcast([]byte("all"))

	s.Equal("all", s.read(a))
	s.Equal("all", s.read(b))
}

func (s *HubSuite) TestDisconnectIsReported() {
	s.random.QueueUUID("conn-a")
	a := s.dial()
	s.send(a, "hello")
	s.hub.Bind("conn-a", "player-alice")

	s.Require().NoError(a.Close())

	select {
	case connID := <-s.handler.disconnects:
		s.Equal("conn-a", connID)
	case <-time.After(2 * time.Second):
		s.FailNow("disconnect not reported")
	}
	s.Eventually(func() bool { return s.hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	s.False(s.hub.SendTo("player-alice", []byte("gone")))
}

func (s *HubSuite) TestPanicInHandlerKeepsConnection() {
	a := s.dial()
	s.Require().NoError(a.WriteMessage(websocket.TextMessage, []byte("boom")))

	msg := s.send(a, "still here")
	s.Equal("still here", msg.raw)
}

func (s *HubSuite) TestCloseDisconnectsClients() {
	a := s.dial()
	s.send(a, "hello")

	s.hub.Close()

	s.Require().NoError(a.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, _, err := a.ReadMessage()
	s.True(websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func (s *HubSuite) TestOriginAllowList() {
	cfg := DefaultConfig()
	cfg.AllowedOrigins = []string{"https://seabattle.example"}
	hub := NewHub(cfg, s.random, testutil.NopLogger())
	server := httptest.NewServer(hub.Handler(s.handler))
	defer server.Close()
	url := "ws" + strings.TrimPrefix(server.URL, "http")

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	s.Error(err)
	s.Require().NotNil(resp)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"https://seabattle.example"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	s.Require().NoError(err)
	_ = conn.Close()
}
