package game

import "github.com/specterworks/storefront/internal/domain/shared"

var (
	ErrGameNotFound          = shared.NewDomainError("GAME_NOT_FOUND", "Game not found")
	ErrMissingRequiredFields = shared.NewDomainError("MISSING_REQUIRED_FIELDS", "Name and description are required")
	ErrInvalidGameID         = shared.NewDomainError("INVALID_GAME_ID", "Game ID must be numeric")
	ErrGameIDRequired        = shared.NewDomainError("GAME_ID_REQUIRED", "Game ID is required")
)
