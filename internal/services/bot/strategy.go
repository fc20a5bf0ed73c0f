package bot

import "github.com/mcoot/seabattle-go/internal/model"

// Strategy defines how a bot lays out its fleet and picks targets
type Strategy interface {
	// PlaceFleet returns a complete fleet in which no two ships touch
	PlaceFleet() ([]model.Ship, error)
	// ChooseTarget selects an untried cell on the opponent's board
	ChooseTarget(board *model.Board) (model.Coordinate, error)
}
