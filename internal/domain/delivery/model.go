package delivery

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one delivery engagement for one client. Its artwork set is
// created in bulk at session creation and owned exclusively by the session.
type Session struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	ClientName  string `gorm:"not null" json:"client_name"`
	ClientEmail string `gorm:"not null" json:"client_email"`
	Address     string `json:"address"`

	Status SessionStatus `gorm:"type:text;not null;default:'active';index" json:"status"`

	Artworks []Artwork `gorm:"constraint:OnDelete:CASCADE;" json:"artworks,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Artwork is one physical item tracked within a session. The wac_code is the
// business identifier printed on the piece; it is unique per session, not
// globally.
type Artwork struct {
	ID string `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	SessionID string `gorm:"type:uuid;not null;index" json:"session_id"`

	WACCode    string `gorm:"column:wac_code;not null" json:"wac_code"`
	Artist     string `gorm:"not null" json:"artist"`
	Title      string `gorm:"not null" json:"title"`
	Dimensions string `json:"dimensions,omitempty"`

	Status ArtworkStatus `gorm:"type:text;not null;default:'in_stock';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IDs are assigned app-side as well so test stores and batch inserts don't
// depend on the pgcrypto default.
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (a *Artwork) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
