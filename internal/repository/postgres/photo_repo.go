package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/model"
)

// PhotoRepo implements PhotoRepository using PostgreSQL.
type PhotoRepo struct {
	db  *DB
	log *zap.Logger
}

// NewPhotoRepo constructs a photo repository.
func NewPhotoRepo(db *DB, log *zap.Logger) *PhotoRepo {
	if log == nil {
		log = zap.NewNop()
	}
	return &PhotoRepo{db: db, log: log}
}

// isForeignKeyViolation reports whether the error is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	var pg *pgconn.PgError
	return errors.As(err, &pg) && pg.Code == "23503"
}

// AddBatch inserts all photos and bumps the room counter in one transaction.
// The counter moves by the batch size, not per photo, so a crash cannot leave
// photos without their count.
func (r *PhotoRepo) AddBatch(ctx context.Context, roomID uuid.UUID, photos []*model.Photo) (err error) {
	if len(photos) == 0 {
		return nil
	}

	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const ins = `
INSERT INTO photos (id, room_id, name, uploader, mime_type, size_bytes, inline_data, blob_ref, thumb_ref, like_count, dislike_count, uploaded_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,0,0,$10)`

	for _, p := range photos {
		var inline []byte
		var blobRef, thumbRef *string
		if len(p.InlineData) > 0 {
			inline = p.InlineData
		}
		if p.BlobRef != "" {
			blobRef = &p.BlobRef
		}
		if p.ThumbRef != "" {
			thumbRef = &p.ThumbRef
		}
		if _, err = tx.Exec(ctx, ins, p.ID, roomID, p.Name, p.Uploader, p.MimeType, p.SizeBytes, inline, blobRef, thumbRef, p.UploadedAt); err != nil {
			if isForeignKeyViolation(err) {
				err = errs.ErrNotFound
			}
			return err
		}
	}

	const bump = `UPDATE rooms SET photo_count = photo_count + $2 WHERE id=$1`
	tag, err := tx.Exec(ctx, bump, roomID, int64(len(photos)))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		err = errs.ErrNotFound
		return err
	}
	return nil
}

// ListByRoom selects a room's photos newest-first with the viewer's reaction
// joined in. Rows that fail to scan or miss required fields are skipped so a
// partially corrupt collection stays browsable.
func (r *PhotoRepo) ListByRoom(ctx context.Context, roomID, viewerID uuid.UUID) ([]model.Photo, error) {
	const q = `
SELECT p.id, p.name, p.uploader, p.mime_type, p.size_bytes,
       (p.inline_data IS NOT NULL), p.blob_ref, p.thumb_ref,
       p.like_count, p.dislike_count, p.uploaded_at, re.action
FROM photos p
LEFT JOIN reactions re ON re.photo_id = p.id AND re.viewer_id = $2
WHERE p.room_id = $1
ORDER BY p.uploaded_at DESC NULLS LAST`
	rows, err := r.db.Pool.Query(ctx, q, roomID, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Photo{}
	for rows.Next() {
		var (
			p          model.Photo
			hasInline  bool
			blobRef    *string
			thumbRef   *string
			uploadedAt *time.Time
			action     *string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Uploader, &p.MimeType, &p.SizeBytes,
			&hasInline, &blobRef, &thumbRef,
			&p.LikeCount, &p.DislikeCount, &uploadedAt, &action); err != nil {
			r.log.Warn("skipping malformed photo row", zap.String("room_id", roomID.String()), zap.Error(err))
			continue
		}
		if p.Name == "" || (!hasInline && blobRef == nil) {
			r.log.Warn("skipping photo row with missing fields",
				zap.String("room_id", roomID.String()), zap.String("photo_id", p.ID.String()))
			continue
		}
		p.RoomID = roomID
		if blobRef != nil {
			p.BlobRef = *blobRef
		}
		if thumbRef != nil {
			p.ThumbRef = *thumbRef
		}
		if uploadedAt != nil {
			p.UploadedAt = *uploadedAt
		} else {
			// Records with an unusable timestamp are kept, not rejected.
			p.UploadedAt = time.Now()
		}
		if action != nil {
			p.ViewerAction = model.ReactionAction(*action)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID selects a single photo including its payload.
func (r *PhotoRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Photo, error) {
	const q = `
SELECT id, room_id, name, uploader, mime_type, size_bytes, inline_data, blob_ref, thumb_ref,
       like_count, dislike_count, uploaded_at
FROM photos WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var (
		p          model.Photo
		blobRef    *string
		thumbRef   *string
		uploadedAt *time.Time
	)
	if err := row.Scan(&p.ID, &p.RoomID, &p.Name, &p.Uploader, &p.MimeType, &p.SizeBytes,
		&p.InlineData, &blobRef, &thumbRef, &p.LikeCount, &p.DislikeCount, &uploadedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if blobRef != nil {
		p.BlobRef = *blobRef
	}
	if thumbRef != nil {
		p.ThumbRef = *thumbRef
	}
	if uploadedAt != nil {
		p.UploadedAt = *uploadedAt
	} else {
		p.UploadedAt = time.Now()
	}
	return &p, nil
}

// SetReaction applies the three-way transition inside one transaction.
// The photo row is locked first so concurrent reactions serialize and the
// denormalized counters cannot drift from the reaction rows.
func (r *PhotoRepo) SetReaction(ctx context.Context, photoID, viewerID uuid.UUID, action model.ReactionAction) (res model.ReactionResult, err error) {
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return model.ReactionResult{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const selPhoto = `SELECT room_id, like_count, dislike_count FROM photos WHERE id=$1 FOR UPDATE`
	var roomID uuid.UUID
	var likes, dislikes int
	if err = tx.QueryRow(ctx, selPhoto, photoID).Scan(&roomID, &likes, &dislikes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = errs.ErrNotFound
		}
		return model.ReactionResult{}, err
	}

	const selReaction = `SELECT action FROM reactions WHERE photo_id=$1 AND viewer_id=$2`
	prior := model.ReactionNone
	var priorPtr *string
	scanErr := tx.QueryRow(ctx, selReaction, photoID, viewerID).Scan(&priorPtr)
	switch {
	case scanErr == nil:
		if priorPtr != nil {
			prior = model.ReactionAction(*priorPtr)
		}
	case errors.Is(scanErr, pgx.ErrNoRows):
		// first reaction from this viewer
	default:
		return model.ReactionResult{}, scanErr
	}

	next := action
	switch prior {
	case model.ReactionNone:
		bumpCounter(&likes, &dislikes, action, +1)
	case action:
		// toggle-off
		next = model.ReactionNone
		bumpCounter(&likes, &dislikes, action, -1)
	default:
		// swap
		bumpCounter(&likes, &dislikes, prior, -1)
		bumpCounter(&likes, &dislikes, action, +1)
	}

	var nextPtr *string
	if next != model.ReactionNone {
		s := string(next)
		nextPtr = &s
	}
	const upsert = `
INSERT INTO reactions (photo_id, viewer_id, action, updated_at)
VALUES ($1,$2,$3,now())
ON CONFLICT (photo_id, viewer_id) DO UPDATE SET action=$3, updated_at=now()`
	if _, err = tx.Exec(ctx, upsert, photoID, viewerID, nextPtr); err != nil {
		return model.ReactionResult{}, err
	}

	const upd = `UPDATE photos SET like_count=$2, dislike_count=$3 WHERE id=$1`
	if _, err = tx.Exec(ctx, upd, photoID, likes, dislikes); err != nil {
		return model.ReactionResult{}, err
	}

	return model.ReactionResult{RoomID: roomID, LikeCount: likes, DislikeCount: dislikes, ViewerAction: next}, nil
}

func bumpCounter(likes, dislikes *int, action model.ReactionAction, delta int) {
	switch action {
	case model.ReactionLike:
		*likes += delta
		if *likes < 0 {
			*likes = 0
		}
	case model.ReactionDislike:
		*dislikes += delta
		if *dislikes < 0 {
			*dislikes = 0
		}
	}
}
