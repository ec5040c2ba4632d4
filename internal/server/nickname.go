package server

import "math/rand/v2"

var (
	adjectives = []string{
		"Brave", "Clever", "Happy", "Mysterious", "Swift",
		"Quiet", "Lucky", "Bold", "Calm", "Curious",
		"Nimble", "Patient", "Gentle", "Steady", "Wily",
	}

	nouns = []string{
		"Mouse", "Minotaur", "Fox", "Owl", "Badger",
		"Hedgehog", "Ferret", "Rabbit", "Mole", "Squirrel",
		"Otter", "Raccoon", "Lizard", "Wren", "Beetle",
	}
)

// GenerateNickname 生成随机昵称，如 "Swift Otter"
func GenerateNickname() string {
	return adjectives[rand.IntN(len(adjectives))] + " " + nouns[rand.IntN(len(nouns))]
}
