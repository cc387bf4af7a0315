package sessions

import (
	"delivery-app/internal/domain/delivery"
	"delivery-app/internal/domain/manifest"
)

type CreateSessionRequest struct {
	Artworks      []manifest.Candidate   `json:"artworks" binding:"required"`
	ClientDetails delivery.ClientDetails `json:"client_details" binding:"required"`
}

type SessionDetailDTO struct {
	Session  delivery.Session   `json:"session"`
	Artworks []delivery.Artwork `json:"artworks"`
}
