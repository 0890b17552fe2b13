package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/model"
)

func TestDisk_StageAndReadBack(t *testing.T) {
	t.Parallel()
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	up := model.Upload{Name: "cat.jpg", MimeType: "image/jpeg", Data: []byte("jpeg-bytes")}

	p, err := d.Stage(ctx, id, up, []byte("thumb-bytes"))
	require.NoError(t, err)
	require.NotEmpty(t, p.BlobRef)
	require.NotEmpty(t, p.ThumbRef)
	require.Nil(t, p.Inline)

	photo := &model.Photo{BlobRef: p.BlobRef, ThumbRef: p.ThumbRef}
	data, err := d.Payload(ctx, photo)
	require.NoError(t, err)
	require.Equal(t, []byte("jpeg-bytes"), data)

	th, err := d.Thumbnail(ctx, photo)
	require.NoError(t, err)
	require.Equal(t, []byte("thumb-bytes"), th)
}

func TestDisk_DiscardRemovesStagedFiles(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	d, err := NewDisk(root)
	require.NoError(t, err)

	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	p, err := d.Stage(ctx, id, model.Upload{Name: "a.png", MimeType: "image/png", Data: []byte("x")}, []byte("t"))
	require.NoError(t, err)

	d.Discard(ctx, p)

	_, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(p.BlobRef)))
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(root, filepath.FromSlash(p.ThumbRef)))
	require.True(t, os.IsNotExist(statErr))
}

func TestDisk_RefusesTraversal(t *testing.T) {
	t.Parallel()
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	_, err = d.Payload(context.Background(), &model.Photo{BlobRef: "../../etc/passwd"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDisk_MissingBlobIsNotFound(t *testing.T) {
	t.Parallel()
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	_, err = d.Payload(context.Background(), &model.Photo{BlobRef: "photos/nope.jpg"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestInline_StageKeepsBytesAndCap(t *testing.T) {
	t.Parallel()
	s := NewInline(0)
	require.Equal(t, DefaultInlineCap, s.InlineCap())

	p, err := s.Stage(context.Background(), uuid.Must(uuid.NewV4()), model.Upload{Data: []byte("abc")}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), p.Inline)
	require.Empty(t, p.BlobRef)

	data, err := s.Payload(context.Background(), &model.Photo{InlineData: p.Inline})
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), data)

	_, err = s.Thumbnail(context.Background(), &model.Photo{InlineData: p.Inline})
	require.ErrorIs(t, err, errs.ErrNotFound)
}
