package model

// Bot strategy constants
const (
	BotStrategyRandom = "random"
	BotStrategyGreedy = "greedy"
)

// BotStrategyDisplayName returns a human-readable label for a strategy
func BotStrategyDisplayName(strategy string) string {
	switch strategy {
	case BotStrategyRandom:
		return "Random"
	case BotStrategyGreedy:
		return "Greedy"
	default:
		return strategy
	}
}

// ValidBotStrategies returns all valid bot strategy names
func ValidBotStrategies() []string {
	return []string{BotStrategyRandom, BotStrategyGreedy}
}
