// Package store backs the delivery workflow with postgres via gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"delivery-app/internal/domain/delivery"

	"gorm.io/gorm"
)

type GormStore struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateSessionWithArtworks inserts the session and its artwork batch as one
// transaction so a failed batch insert never leaves an empty session behind.
func (s *GormStore) CreateSessionWithArtworks(ctx context.Context, session *delivery.Session, artworks []delivery.Artwork) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		for i := range artworks {
			artworks[i].SessionID = session.ID
		}
		return tx.Create(&artworks).Error
	})
}

func (s *GormStore) GetSession(ctx context.Context, id string) (*delivery.Session, error) {
	var session delivery.Session
	err := s.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: session %s", delivery.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: load session: %v", delivery.ErrDependency, err)
	}
	return &session, nil
}

func (s *GormStore) ListArtworks(ctx context.Context, sessionID string) ([]delivery.Artwork, error) {
	var artworks []delivery.Artwork
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&artworks).Error
	if err != nil {
		return nil, err
	}
	return artworks, nil
}

func (s *GormStore) GetArtwork(ctx context.Context, id string) (*delivery.Artwork, error) {
	var artwork delivery.Artwork
	err := s.db.WithContext(ctx).First(&artwork, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: artwork %s", delivery.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: load artwork: %v", delivery.ErrDependency, err)
	}
	return &artwork, nil
}

// UpdateSessionStatus performs a conditional write: the row must still hold
// the expected status. RowsAffected tells the caller whether it landed.
func (s *GormStore) UpdateSessionStatus(ctx context.Context, id string, from, to delivery.SessionStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&delivery.Session{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (s *GormStore) UpdateArtworkStatus(ctx context.Context, id string, from, to delivery.ArtworkStatus) (bool, error) {
	res := s.db.WithContext(ctx).Model(&delivery.Artwork{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

// ListSessions returns sessions filtered by status, newest first. An empty
// filter returns everything.
func (s *GormStore) ListSessions(ctx context.Context, statuses ...delivery.SessionStatus) ([]delivery.Session, error) {
	q := s.db.WithContext(ctx).Order("created_at DESC")
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var sessions []delivery.Session
	if err := q.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
