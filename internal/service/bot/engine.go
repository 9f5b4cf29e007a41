package bot

import "strings"

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

var difficultyDepth = map[string]int{
	DifficultyEasy:   2,
	DifficultyMedium: 4,
	DifficultyHard:   DefaultDepth,
}

// DepthForDifficulty maps a difficulty name to a search depth. Unknown
// names get the full depth.
func DepthForDifficulty(difficulty string) int {
	if depth, ok := difficultyDepth[strings.ToLower(strings.TrimSpace(difficulty))]; ok {
		return depth
	}
	return DefaultDepth
}

func IsValidDifficulty(difficulty string) bool {
	_, ok := difficultyDepth[strings.ToLower(strings.TrimSpace(difficulty))]
	return ok
}
