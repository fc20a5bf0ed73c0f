package model

// EventType identifies the type of event
type EventType string

const (
	// Lobby events
	EventUpdateRoom    EventType = "update_room"
	EventUpdateWinners EventType = "update_winners"
	EventCreateGame    EventType = "create_game"

	// Game events
	EventAddShips  EventType = "add_ships"
	EventStartGame EventType = "start_game"
	EventAttack    EventType = "attack"
	EventTurn      EventType = "turn"
	EventFinish    EventType = "finish"
)

// Event is an outbound notification. It is delivered to every connected
// client when Broadcast is set, otherwise to each player in Targets.
type Event struct {
	Type      EventType
	Targets   []PlayerID
	Broadcast bool
	GameID    GameID
	Payload   any
}

// Broadcast builds an event addressed to every connected client
func Broadcast(eventType EventType, payload any) Event {
	return Event{Type: eventType, Broadcast: true, Payload: payload}
}

// RoomListPayload contains the open rooms
type RoomListPayload struct {
	Rooms []Room
}

// WinnersPayload contains the ledger snapshot
type WinnersPayload struct {
	Winners []WinnerEntry
}

// CreateGamePayload tells a participant that a game exists
type CreateGamePayload struct {
	GameID   GameID
	PlayerID PlayerID // the recipient's in-game identity
}

// FleetAcceptedPayload acknowledges the first fleet submission
type FleetAcceptedPayload struct {
	PlayerID PlayerID
	Message  string
}

// StartGamePayload carries the recipient's own fleet when play begins
type StartGamePayload struct {
	Ships         []Ship
	CurrentPlayer PlayerID
}

// AttackPayload reports one resolved cell
type AttackPayload struct {
	Position      Coordinate
	CurrentPlayer PlayerID // the attacker
	Status        ShotOutcome
}

// TurnPayload names whose turn it is
type TurnPayload struct {
	CurrentPlayer PlayerID
}

// FinishPayload names the winner
type FinishPayload struct {
	Winner  PlayerID
	Forfeit bool
}
