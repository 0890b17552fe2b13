package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/model"
	"github.com/anlupatov/snaproom/internal/repository"
	"github.com/anlupatov/snaproom/internal/storage"
	"github.com/anlupatov/snaproom/internal/thumb"
)

// AnonymousUploader is the display name used when a viewer has none.
const AnonymousUploader = "Anonymous"

// PhotoService defines uploads, listings, reactions and downloads.
type PhotoService interface {
	// Add stages and stores an upload batch, bumping the room counter by
	// the batch size. The batch is all-or-nothing.
	Add(ctx context.Context, roomID uuid.UUID, uploads []model.Upload, uploader string) ([]model.Photo, error)
	// List returns a room's photos newest-first with the viewer's reaction resolved.
	List(ctx context.Context, roomID, viewerID uuid.UUID) ([]model.Photo, error)
	// React applies a like/dislike transition and returns the resulting counts.
	React(ctx context.Context, photoID, viewerID uuid.UUID, action model.ReactionAction) (model.ReactionResult, error)
	// Payload returns a photo and its full-size bytes.
	Payload(ctx context.Context, photoID uuid.UUID) (*model.Photo, []byte, error)
	// Thumbnail returns a photo and its thumbnail, deriving the image when
	// none is stored.
	Thumbnail(ctx context.Context, photoID uuid.UUID) (*model.Photo, []byte, error)
}

type PhotoServiceImpl struct {
	repo     repository.PhotoRepository
	store    storage.Strategy
	maxBatch int
	log      *zap.Logger
}

// NewPhotoService constructs PhotoService with batch limits.
func NewPhotoService(repo repository.PhotoRepository, store storage.Strategy, maxBatch int, log *zap.Logger) *PhotoServiceImpl {
	if maxBatch <= 0 {
		maxBatch = 20
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PhotoServiceImpl{repo: repo, store: store, maxBatch: maxBatch, log: log}
}

// Add validates and stages all uploads concurrently, then inserts the batch
// in one transaction. Validation rules:
// - 0 < len(uploads) <= maxBatch
// - each upload decodes as an image
// - in inline mode, each source is within the inline cap
// A staging or insert failure leaves no rows behind; already staged blobs
// are discarded.
func (s *PhotoServiceImpl) Add(ctx context.Context, roomID uuid.UUID, uploads []model.Upload, uploader string) ([]model.Photo, error) {
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("empty room id: %w", errs.ErrValidation)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("empty upload batch: %w", errs.ErrValidation)
	}
	if len(uploads) > s.maxBatch {
		return nil, fmt.Errorf("batch too large (%d > %d): %w", len(uploads), s.maxBatch, errs.ErrValidation)
	}
	if uploader == "" {
		uploader = AnonymousUploader
	}

	// The cap applies to source size and is checked up front so an
	// oversized file fails the batch before anything is staged.
	if limit := s.store.InlineCap(); limit > 0 {
		for _, up := range uploads {
			if int64(len(up.Data)) > limit {
				return nil, fmt.Errorf("%s is %d bytes (cap %d): %w", up.Name, len(up.Data), limit, errs.ErrPayloadTooLarge)
			}
		}
	}

	now := time.Now()
	photos := make([]*model.Photo, len(uploads))
	placements := make([]storage.Placement, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	for i := range uploads {
		g.Go(func() error {
			up := uploads[i]
			mime, err := thumb.Sniff(up.Data)
			if err != nil {
				return fmt.Errorf("%s: not a supported image: %w", up.Name, errs.ErrValidation)
			}
			up.MimeType = mime

			id, err := uuid.NewV4()
			if err != nil {
				return err
			}

			var tb []byte
			if s.store.InlineCap() == 0 {
				// Blob mode stores the thumbnail next to the payload.
				if tb, err = thumb.JPEG(up.Data); err != nil {
					s.log.Warn("thumbnail generation failed, storing without one",
						zap.String("name", up.Name), zap.Error(err))
					tb = nil
				}
			}

			placement, err := s.store.Stage(gctx, id, up, tb)
			if err != nil {
				return err
			}
			placements[i] = placement
			photos[i] = &model.Photo{
				ID:         id,
				RoomID:     roomID,
				Name:       up.Name,
				Uploader:   uploader,
				MimeType:   mime,
				SizeBytes:  int64(len(up.Data)),
				InlineData: placement.Inline,
				BlobRef:    placement.BlobRef,
				ThumbRef:   placement.ThumbRef,
				UploadedAt: now,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.discardAll(ctx, placements)
		return nil, err
	}

	if err := s.repo.AddBatch(ctx, roomID, photos); err != nil {
		s.discardAll(ctx, placements)
		return nil, err
	}

	out := make([]model.Photo, len(photos))
	for i, p := range photos {
		out[i] = *p
	}
	return out, nil
}

func (s *PhotoServiceImpl) discardAll(ctx context.Context, placements []storage.Placement) {
	for _, p := range placements {
		s.store.Discard(ctx, p)
	}
}

// List returns a room's photos with the viewer's reaction resolved.
func (s *PhotoServiceImpl) List(ctx context.Context, roomID, viewerID uuid.UUID) ([]model.Photo, error) {
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("empty room id: %w", errs.ErrValidation)
	}
	return s.repo.ListByRoom(ctx, roomID, viewerID)
}

// React validates the action and delegates the atomic transition to the repository.
func (s *PhotoServiceImpl) React(ctx context.Context, photoID, viewerID uuid.UUID, action model.ReactionAction) (model.ReactionResult, error) {
	if photoID == uuid.Nil || viewerID == uuid.Nil {
		return model.ReactionResult{}, fmt.Errorf("empty photo/viewer id: %w", errs.ErrValidation)
	}
	if !action.Valid() {
		return model.ReactionResult{}, fmt.Errorf("unknown action %q: %w", action, errs.ErrValidation)
	}
	return s.repo.SetReaction(ctx, photoID, viewerID, action)
}

// Payload loads the photo and resolves its bytes through the storage strategy.
func (s *PhotoServiceImpl) Payload(ctx context.Context, photoID uuid.UUID) (*model.Photo, []byte, error) {
	photo, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.store.Payload(ctx, photo)
	if err != nil {
		return nil, nil, err
	}
	return photo, data, nil
}

// Thumbnail serves the stored thumbnail when the mode keeps one, and derives
// it from the payload otherwise.
func (s *PhotoServiceImpl) Thumbnail(ctx context.Context, photoID uuid.UUID) (*model.Photo, []byte, error) {
	photo, err := s.repo.GetByID(ctx, photoID)
	if err != nil {
		return nil, nil, err
	}
	if tb, err := s.store.Thumbnail(ctx, photo); err == nil {
		return photo, tb, nil
	}
	data, err := s.store.Payload(ctx, photo)
	if err != nil {
		return nil, nil, err
	}
	tb, err := thumb.JPEG(data)
	if err != nil {
		return nil, nil, err
	}
	return photo, tb, nil
}
