package invitations

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roemah-nenek/undangan/internal/models"
	"github.com/roemah-nenek/undangan/internal/templates"
)

// CleanupEnqueuer schedules removal of an invitation's uploaded media.
type CleanupEnqueuer interface {
	EnqueueMediaCleanup(ctx context.Context, invitationID uuid.UUID) error
}

// CreateInput is the authoring payload for a new invitation.
type CreateInput struct {
	Slug       string
	TemplateID string
	Content    models.Content
}

// Service is the authoring layer over the invitation store. It normalises slugs,
// validates templates, shapes content per template and keeps the slug cache fresh.
type Service struct {
	store   Store
	cache   Cache
	cleanup CleanupEnqueuer
	logger  *zap.Logger
}

// NewService creates the invitation service. cache and cleanup may be nil.
func NewService(store Store, cache Cache, cleanup CleanupEnqueuer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cache: cache, cleanup: cleanup, logger: logger}
}

// Create stores a new invitation owned by accountID.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, in CreateInput) (*models.Invitation, error) {
	if strings.TrimSpace(in.Slug) == "" {
		return nil, fmt.Errorf("%w: slug is required", ErrValidation)
	}
	slug := NormalizeSlug(in.Slug)
	if slug == "" {
		return nil, ErrInvalidSlug
	}
	templateID := in.TemplateID
	if templateID == "" {
		templateID = templates.Default
	}
	if !templates.Exists(templateID) {
		return nil, fmt.Errorf("%w: unknown template %q", ErrValidation, templateID)
	}

	content := in.Content
	templates.ShapeContent(templateID, &content)
	inv, err := s.store.Create(ctx, &models.Invitation{
		Slug:           slug,
		TemplateID:     templateID,
		OwnerAccountID: accountID,
		Content:        content,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, inv.Slug)
	s.logger.Info("invitation created", zap.String("invitation_id", inv.ID.String()), zap.String("slug", inv.Slug))
	return inv, nil
}

// Update applies a partial update to an owned invitation.
func (s *Service) Update(ctx context.Context, accountID, id uuid.UUID, patch models.InvitationPatch) (*models.Invitation, error) {
	if patch.Slug != nil {
		slug := NormalizeSlug(*patch.Slug)
		if slug == "" {
			return nil, ErrInvalidSlug
		}
		patch.Slug = &slug
	}
	if patch.TemplateID != nil && !templates.Exists(*patch.TemplateID) {
		return nil, fmt.Errorf("%w: unknown template %q", ErrValidation, *patch.TemplateID)
	}

	current, err := s.store.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	templateID := current.TemplateID
	if patch.TemplateID != nil {
		templateID = *patch.TemplateID
	}
	if templateID == templates.Sunda {
		// Stored couple and gift still carry fields sunda never shows.
		if patch.Couple == nil {
			couple := current.Couple
			patch.Couple = &couple
		}
		if patch.Gift == nil {
			gift := current.Gift
			patch.Gift = &gift
		}
	}
	templates.ShapePatch(templateID, &patch)

	inv, err := s.store.Update(ctx, accountID, id, &patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, current.Slug, inv.Slug)
	return inv, nil
}

// Delete removes an owned invitation and schedules its media cleanup.
func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	inv, err := s.store.Delete(ctx, accountID, id)
	if err != nil {
		return err
	}
	s.invalidate(ctx, inv.Slug)
	if s.cleanup != nil {
		if err := s.cleanup.EnqueueMediaCleanup(ctx, inv.ID); err != nil {
			s.logger.Warn("enqueue media cleanup failed", zap.String("invitation_id", inv.ID.String()), zap.Error(err))
		}
	}
	s.logger.Info("invitation deleted", zap.String("invitation_id", inv.ID.String()), zap.String("slug", inv.Slug))
	return nil
}

// GetByID returns an owned invitation.
func (s *Service) GetByID(ctx context.Context, accountID, id uuid.UUID) (*models.Invitation, error) {
	return s.store.GetByID(ctx, accountID, id)
}

// ListByOwner returns the account's invitations, newest first.
func (s *Service) ListByOwner(ctx context.Context, accountID uuid.UUID) ([]models.Invitation, error) {
	return s.store.ListByOwner(ctx, accountID)
}

// GetBySlug resolves a public invitation. Cache errors fall back to the store.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Invitation, error) {
	slug = NormalizeSlug(slug)
	if slug == "" {
		return nil, ErrNotFound
	}
	fill := false
	var version int64
	if s.cache != nil {
		inv, ok, err := s.cache.Get(ctx, slug)
		if err != nil {
			s.logger.Warn("invitation cache read failed", zap.String("slug", slug), zap.Error(err))
		} else if ok {
			return inv, nil
		} else if version, err = s.cache.Version(ctx, slug); err != nil {
			s.logger.Warn("invitation cache version read failed", zap.String("slug", slug), zap.Error(err))
		} else {
			fill = true
		}
	}
	inv, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if fill {
		if err := s.cache.Set(ctx, inv, version); err != nil {
			s.logger.Warn("invitation cache write failed", zap.String("slug", slug), zap.Error(err))
		}
	}
	return inv, nil
}

func (s *Service) invalidate(ctx context.Context, slugs ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, slugs...); err != nil {
		s.logger.Warn("invitation cache invalidate failed", zap.Strings("slugs", slugs), zap.Error(err))
	}
}
