// Package game holds the storefront entity, its identifiers and the
// persistence port the rest of the service is written against.
package game

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Display values used when a record leaves the field empty.
const (
	DefaultDeveloper   = "Unknown"
	DefaultPublisher   = "Unknown"
	DefaultReleaseDate = "To be announced"
)

// GameID is the numeric identifier of a game. It is carried as a string so
// that leading zeros and large values survive a JSON round trip.
type GameID string

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *GameID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = GameID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("game id must be a string or a number: %w", err)
	}
	*id = GameID(n.String())
	return nil
}

// String returns the raw identifier.
func (id GameID) String() string {
	return string(id)
}

// IsZero reports whether no identifier was supplied.
func (id GameID) IsZero() bool {
	return id == ""
}

// Valid reports whether the identifier is a non-empty run of ASCII digits.
func (id GameID) Valid() bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// Game is the persisted storefront record.
type Game struct {
	ID                GameID   `json:"id,omitempty"`
	Name              string   `json:"name"`
	Slug              string   `json:"slug,omitempty"`
	Description       string   `json:"description"`
	Developer         string   `json:"developer,omitempty"`
	Publisher         string   `json:"publisher,omitempty"`
	ReleaseDate       string   `json:"releaseDate,omitempty"`
	MainImage         string   `json:"mainImage,omitempty"`
	MainImageBase64   string   `json:"mainImageBase64,omitempty"`
	Screenshots       []string `json:"screenshots,omitempty"`
	ScreenshotsBase64 []string `json:"screenshotsBase64,omitempty"`
}

// DeveloperOrDefault returns the developer or DefaultDeveloper.
func (g *Game) DeveloperOrDefault() string {
	if g.Developer == "" {
		return DefaultDeveloper
	}
	return g.Developer
}

// PublisherOrDefault returns the publisher or DefaultPublisher.
func (g *Game) PublisherOrDefault() string {
	if g.Publisher == "" {
		return DefaultPublisher
	}
	return g.Publisher
}

// ReleaseDateOrDefault returns the release date or DefaultReleaseDate.
func (g *Game) ReleaseDateOrDefault() string {
	if g.ReleaseDate == "" {
		return DefaultReleaseDate
	}
	return g.ReleaseDate
}

// EffectiveMainImage prefers the inline image over the reference.
// Empty when the record carries neither.
func (g *Game) EffectiveMainImage() string {
	if g.MainImageBase64 != "" {
		return g.MainImageBase64
	}
	return g.MainImage
}

// EffectiveScreenshots prefers the inline list when it is non-empty.
func (g *Game) EffectiveScreenshots() []string {
	if len(g.ScreenshotsBase64) > 0 {
		return g.ScreenshotsBase64
	}
	return g.Screenshots
}

// Summary returns the index entry for the game.
func (g *Game) Summary() Summary {
	return Summary{ID: g.ID, Name: g.Name, Slug: g.Slug}
}

// Encode serializes the record for the store.
func (g *Game) Encode() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("failed to encode game %s: %w", g.ID, err)
	}
	return string(data), nil
}

// DecodeGame parses a stored record.
func DecodeGame(raw string) (*Game, error) {
	var g Game
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("failed to decode game record: %w", err)
	}
	return &g, nil
}

// Summary is one entry of the game index.
type Summary struct {
	ID   GameID `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
