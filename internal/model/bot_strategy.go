package model

// BotStrategyRandom places a random spaced fleet and fires at random untried cells
const BotStrategyRandom = "random"

var botStrategyLabels = map[string]string{
	BotStrategyRandom: "Random",
}

// BotName builds the display name of a bot, e.g. "Random Bot XK7Q".
// Unknown strategies are used as their own label.
func BotName(strategy, suffix string) string {
	label, ok := botStrategyLabels[strategy]
	if !ok {
		label = strategy
	}
	return label + " Bot " + suffix
}
