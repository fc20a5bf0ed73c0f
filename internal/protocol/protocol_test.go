package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/seabattle-go/internal/model"
	"github.com/mcoot/seabattle-go/internal/testutil"
)

func parse(t *testing.T, raw string) (Request, error) {
	t.Helper()
	env, err := Decode([]byte(raw))
	require.NoError(t, err)
	return ParseRequest(env)
}

func TestDecodeStringWrappedData(t *testing.T) {
	req, err := parse(t, `{"type":"reg","data":"{\"name\":\"alice\",\"password\":\"pw\"}","id":0}`)
	require.NoError(t, err)
	assert.Equal(t, RegRequest{Name: "alice", Password: "pw"}, req)
}

func TestDecodeObjectData(t *testing.T) {
	req, err := parse(t, `{"type":"reg","data":{"name":"alice","password":"pw"},"id":0}`)
	require.NoError(t, err)
	assert.Equal(t, RegRequest{Name: "alice", Password: "pw"}, req)
}

func TestDecodeEmptyData(t *testing.T) {
	for _, raw := range []string{
		`{"type":"create_room","data":"","id":0}`,
		`{"type":"create_room","id":0}`,
		`{"type":"create_room","data":null,"id":0}`,
	} {
		req, err := parse(t, raw)
		require.NoError(t, err, raw)
		assert.Equal(t, CreateRoomRequest{}, req)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.ErrorIs(t, err, model.ErrMalformedMessage)

	_, err = Decode([]byte(`{"data":"{}"}`))
	assert.ErrorIs(t, err, model.ErrMalformedMessage)
}

func TestUnknownMessageType(t *testing.T) {
	_, err := parse(t, `{"type":"teleport","data":"","id":0}`)
	assert.ErrorIs(t, err, model.ErrUnknownMessageType)
}

func TestMalformedPayload(t *testing.T) {
	_, err := parse(t, `{"type":"reg","data":"{not json","id":0}`)
	assert.ErrorIs(t, err, model.ErrMalformedMessage)
}

func TestJoinRoomAcceptsNumericIndex(t *testing.T) {
	req, err := parse(t, `{"type":"add_user_to_room","data":{"indexRoom":3},"id":0}`)
	require.NoError(t, err)
	assert.Equal(t, FlexibleID("3"), req.(JoinRoomRequest).IndexRoom)

	_, err = parse(t, `{"type":"add_user_to_room","data":{},"id":0}`)
	assert.ErrorIs(t, err, model.ErrMalformedMessage)
}

func TestAttackRequiresCoordinates(t *testing.T) {
	req, err := parse(t, `{"type":"attack","data":{"gameId":"g1","x":0,"y":7,"indexPlayer":"p1"},"id":0}`)
	require.NoError(t, err)
	attack := req.(AttackRequest)
	assert.Equal(t, model.Coordinate{X: 0, Y: 7}, attack.Target())
	assert.Equal(t, FlexibleID("p1"), attack.IndexPlayer)

	_, err = parse(t, `{"type":"attack","data":{"gameId":"g1","x":0,"indexPlayer":"p1"},"id":0}`)
	assert.ErrorIs(t, err, model.ErrMalformedMessage)
}

func TestAddShipsConvertsFleet(t *testing.T) {
	raw := `{"type":"add_ships","data":{"gameId":"g1","indexPlayer":"p1","ships":[
		{"position":{"x":0,"y":0},"direction":false,"length":4,"type":"huge"},
		{"position":{"x":9,"y":5},"direction":true,"length":3,"type":"small"}
	]},"id":0}`
	req, err := parse(t, raw)
	require.NoError(t, err)

	ships := req.(AddShipsRequest).FleetToModel()
	require.Len(t, ships, 2)
	assert.Equal(t, model.Ship{Anchor: model.Coordinate{X: 0, Y: 0}, Length: 4, Orientation: model.Horizontal, Kind: model.ShipHuge}, ships[0])
	// kind follows the length, not the client label
	assert.Equal(t, model.Ship{Anchor: model.Coordinate{X: 9, Y: 5}, Length: 3, Orientation: model.Vertical, Kind: model.ShipLarge}, ships[1])
}

func TestShipWireShapeRoundTrip(t *testing.T) {
	for _, ship := range testutil.VerticalFleet() {
		assert.Equal(t, ship, ShipFromModel(ship).ToModel())
	}
}

func decodeFrame(t *testing.T, frame []byte) (string, map[string]any) {
	t.Helper()
	var env struct {
		Type string `json:"type"`
		Data string `json:"data"`
		ID   int    `json:"id"`
	}
	require.NoError(t, json.Unmarshal(frame, &env))
	require.Equal(t, 0, env.ID)

	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(env.Data), &data))
	return env.Type, data
}

func TestEncodeWritesDataAsString(t *testing.T) {
	frame, err := Encode(TypeTurn, TurnResponse{CurrentPlayer: "p1"})
	require.NoError(t, err)

	msgType, data := decodeFrame(t, frame)
	assert.Equal(t, TypeTurn, msgType)
	assert.Equal(t, "p1", data["currentPlayer"])
}

func TestEncodeEventAttack(t *testing.T) {
	frame, err := EncodeEvent(model.Event{
		Type: model.EventAttack,
		Payload: model.AttackPayload{
			Position:      model.Coordinate{X: 3, Y: 4},
			CurrentPlayer: "p1",
			Status:        model.OutcomeKilled,
		},
	})
	require.NoError(t, err)

	msgType, data := decodeFrame(t, frame)
	assert.Equal(t, TypeAttack, msgType)
	assert.Equal(t, "killed", data["status"])
	assert.Equal(t, "p1", data["currentPlayer"])
	assert.Equal(t, map[string]any{"x": float64(3), "y": float64(4)}, data["position"])
}

func TestEncodeEventFinishAndCreateGame(t *testing.T) {
	frame, err := EncodeEvent(model.Event{Type: model.EventFinish, Payload: model.FinishPayload{Winner: "p2", Forfeit: true}})
	require.NoError(t, err)
	msgType, data := decodeFrame(t, frame)
	assert.Equal(t, TypeFinish, msgType)
	assert.Equal(t, map[string]any{"winPlayer": "p2"}, data)

	frame, err = EncodeEvent(model.Event{Type: model.EventCreateGame, Payload: model.CreateGamePayload{GameID: "g1", PlayerID: "p1"}})
	require.NoError(t, err)
	msgType, data = decodeFrame(t, frame)
	assert.Equal(t, TypeCreateGame, msgType)
	assert.Equal(t, map[string]any{"idGame": "g1", "idPlayer": "p1"}, data)
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	frame, err := EncodeEvent(model.Broadcast(model.EventUpdateRoom, model.RoomListPayload{}))
	require.NoError(t, err)

	var env struct {
		Type string `json:"type"`
		Data string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, TypeUpdateRoom, env.Type)
	assert.Equal(t, "[]", env.Data)
}

func TestRoomsFromModel(t *testing.T) {
	rooms := RoomsFromModel([]model.Room{{ID: "r1", Host: model.Player{ID: "p1", Name: "alice"}}})
	assert.Equal(t, []RoomEntry{{RoomID: "r1", RoomUsers: []RoomUser{{Name: "alice", Index: "p1"}}}}, rooms)
}

func TestEncodeEventRejectsUnknownPayload(t *testing.T) {
	_, err := EncodeEvent(model.Event{Type: model.EventTurn, Payload: 42})
	assert.Error(t, err)
}
