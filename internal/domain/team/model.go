package team

import "fmt"

// Team is one of the two competing schools in a cheer match.
type Team struct {
	ID      string
	Name    string
	School  string
	LogoURL string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
