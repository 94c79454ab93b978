package game

// DemoGameID is the id of the built-in demo game served when the store
// has no record for it.
const DemoGameID GameID = "1757350"

// DemoGame returns a fresh copy of the built-in demo record under id.
func DemoGame(id GameID) *Game {
	return &Game{
		ID:          id,
		Name:        "TWITCH-PHOBIA",
		Slug:        "twitch-phobia",
		Description: "Psychological horror about streamers trapped inside their own broadcast. Experience the terrifying reality of losing control as your stream becomes your prison.",
		Developer:   "Specterworks Interactive",
		Publisher:   "Specterworks Interactive",
		ReleaseDate: "Oct 31, 2025",
		MainImage:   "/assets/images/1.png",
		Screenshots: []string{
			"/assets/images/1.png",
			"/assets/images/2.png",
			"/assets/images/3.png",
		},
	}
}
