package storefront

import "github.com/specterworks/storefront/internal/domain/game"

// Save outcome messages
const (
	MessageSavedToStore     = "Game saved to KV"
	MessageSavedLocally     = "Game saved locally (KV not configured)"
	MessageStoreWriteFailed = "Game saved locally (KV write failed)"
)

// SaveGameInput is a game submitted for saving.
type SaveGameInput struct {
	ID                game.GameID `json:"id" validate:"gameid"`
	Name              string      `json:"name" validate:"required"`
	Slug              string      `json:"slug"`
	Description       string      `json:"description" validate:"required"`
	Developer         string      `json:"developer"`
	Publisher         string      `json:"publisher"`
	ReleaseDate       string      `json:"releaseDate"`
	MainImage         string      `json:"mainImage"`
	MainImageBase64   string      `json:"mainImageBase64"`
	Screenshots       []string    `json:"screenshots"`
	ScreenshotsBase64 []string    `json:"screenshotsBase64"`
}

func (in SaveGameInput) toGame() *game.Game {
	return &game.Game{
		ID:                in.ID,
		Name:              in.Name,
		Slug:              in.Slug,
		Description:       in.Description,
		Developer:         in.Developer,
		Publisher:         in.Publisher,
		ReleaseDate:       in.ReleaseDate,
		MainImage:         in.MainImage,
		MainImageBase64:   in.MainImageBase64,
		Screenshots:       in.Screenshots,
		ScreenshotsBase64: in.ScreenshotsBase64,
	}
}

// SaveGameResult describes a completed save.
type SaveGameResult struct {
	ID           game.GameID
	Slug         string
	URL          string
	SavedToStore bool
	Message      string
}
