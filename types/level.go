package types

// Level is a tier on the gamification ladder.
type Level struct {
	// Level is the tier number, 1 through 5.
	Level int `json:"level"`

	// Title is the display name of the tier.
	Title string `json:"title"`

	// NextLevel is the point total required to reach the next tier.
	NextLevel int `json:"nextLevel"`
}

// LevelForPoints maps a point total onto the five-tier ladder. The
// ladder is recomputed from the current total each time, so there is no
// transition state to track.
func LevelForPoints(points int) Level {
	switch {
	case points >= 1000:
		return Level{Level: 5, Title: "Eco Guardian", NextLevel: 2000}
	case points >= 500:
		return Level{Level: 4, Title: "Eco Warrior", NextLevel: 1000}
	case points >= 250:
		return Level{Level: 3, Title: "Eco Activist", NextLevel: 500}
	case points >= 100:
		return Level{Level: 2, Title: "Eco Friendly", NextLevel: 250}
	default:
		return Level{Level: 1, Title: "Eco Beginner", NextLevel: 100}
	}
}
