package uid

import "github.com/google/uuid"

// GenerateGameID returns a random id for a new game session
func GenerateGameID() string {
	return uuid.New().String()
}

// IsGameID reports whether id looks like something GenerateGameID made
func IsGameID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
