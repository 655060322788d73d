package scenes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/inamate/vecscene/internal/document"
	"github.com/inamate/vecscene/internal/markup"
	"github.com/inamate/vecscene/internal/ops"
	"github.com/inamate/vecscene/internal/store"
	"github.com/inamate/vecscene/internal/typeid"
)

var (
	ErrNotFound  = store.ErrNotFound
	ErrInvalidID = store.ErrInvalidID
)

// Publisher receives the markup of every scene after it changes.
type Publisher interface {
	Publish(sceneID, markup string)
	Close(sceneID string)
}

// markupExporter is implemented by stores that keep an SVG copy next to each
// snapshot.
type markupExporter interface {
	ExportMarkup(ctx context.Context, id string, s document.Scene, minify bool) (string, error)
}

type Options struct {
	// ExportMarkup writes the scene's SVG alongside every saved snapshot
	// when the store supports it.
	ExportMarkup bool
	Minify       bool
}

// Service owns all scene edits. A single mutex serialises them, so every
// change is a load, apply, save sequence nobody else can interleave with.
type Service struct {
	mu    sync.Mutex
	store store.Store
	pub   Publisher
	opts  Options
}

func NewService(st store.Store, pub Publisher, opts Options) *Service {
	return &Service{store: st, pub: pub, opts: opts}
}

// AppliedOperation is the result of a successful edit.
type AppliedOperation struct {
	OperationID string
	Scene       document.Scene
}

func (s *Service) Create(ctx context.Context, scene document.Scene) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := typeid.NewSceneID()
	if err := s.save(ctx, id, scene); err != nil {
		return "", fmt.Errorf("create scene: %w", err)
	}
	slog.Info("scene created", "scene", id, "shapes", len(scene.Shapes))
	return id, nil
}

func (s *Service) Get(ctx context.Context, id string) (document.Scene, error) {
	return s.store.Load(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scenes: %w", err)
	}
	return ids, nil
}

// Put replaces the scene stored under id, creating it if needed.
func (s *Service) Put(ctx context.Context, id string, scene document.Scene) error {
	if err := typeid.Validate(id, typeid.PrefixScene); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, id, scene)
}

// Apply runs op against the stored scene. A rejected operation leaves the
// stored scene untouched.
func (s *Service) Apply(ctx context.Context, id string, op ops.Operation) (*AppliedOperation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if op.ID == "" {
		op.ID = typeid.NewOpID()
	}

	next, err := ops.Apply(current, op)
	if err != nil {
		slog.Warn("operation rejected", "scene", id, "op", op.ID, "type", op.Type, "error", err)
		return nil, err
	}
	if err := s.save(ctx, id, next); err != nil {
		return nil, err
	}

	slog.Debug("operation applied", "scene", id, "op", op.ID, "type", op.Type, "target", op.Target.String())
	return &AppliedOperation{OperationID: op.ID, Scene: next}, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if s.pub != nil {
		s.pub.Close(id)
	}
	slog.Info("scene deleted", "scene", id)
	return nil
}

// Markup emits the stored scene as SVG, minified on request.
func (s *Service) Markup(ctx context.Context, id string, minify bool) ([]byte, error) {
	scene, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := markup.Bytes(scene)
	if err != nil {
		return nil, err
	}
	if minify {
		return markup.Minify(out)
	}
	return out, nil
}

func (s *Service) save(ctx context.Context, id string, scene document.Scene) error {
	text, err := markup.Bytes(scene)
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, id, scene); err != nil {
		return err
	}

	if s.pub != nil {
		s.pub.Publish(id, string(text))
	}
	if exp, ok := s.store.(markupExporter); ok && s.opts.ExportMarkup {
		// Export failures never fail the save.
		if _, err := exp.ExportMarkup(ctx, id, scene, s.opts.Minify); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("export markup", "scene", id, "error", err)
		}
	}
	return nil
}
