package store

import (
	"context"
	"errors"

	"github.com/inamate/vecscene/internal/document"
)

var (
	ErrNotFound  = errors.New("scene not found")
	ErrInvalidID = errors.New("invalid scene id")
)

// Store is the persistence medium for scenes. Save replaces the stored scene
// only when the whole snapshot was written.
type Store interface {
	Save(ctx context.Context, id string, s document.Scene) error
	Load(ctx context.Context, id string) (document.Scene, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}
