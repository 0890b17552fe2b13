package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/anlupatov/snaproom/internal/errs"
	"github.com/anlupatov/snaproom/internal/model"
)

// Disk stores payloads as files under a root directory and records relative
// references in the photo row.
type Disk struct {
	root string
}

// NewDisk constructs the disk strategy rooted at dir.
func NewDisk(dir string) (*Disk, error) {
	for _, sub := range []string{"photos", "thumbs"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create blob dir: %w", err)
		}
	}
	return &Disk{root: dir}, nil
}

// InlineCap returns 0: disk mode has no inline size cap.
func (s *Disk) InlineCap() int64 { return 0 }

func extForMime(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}

// Stage writes the payload and thumbnail to disk and returns their references.
func (s *Disk) Stage(_ context.Context, photoID uuid.UUID, upload model.Upload, thumb []byte) (Placement, error) {
	blobRef := path.Join("photos", photoID.String()+extForMime(upload.MimeType))
	if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(blobRef)), upload.Data, 0o644); err != nil {
		return Placement{}, fmt.Errorf("write blob: %w", err)
	}
	p := Placement{BlobRef: blobRef}

	if len(thumb) > 0 {
		thumbRef := path.Join("thumbs", photoID.String()+".jpg")
		if err := os.WriteFile(filepath.Join(s.root, filepath.FromSlash(thumbRef)), thumb, 0o644); err != nil {
			s.Discard(context.Background(), p)
			return Placement{}, fmt.Errorf("write thumbnail: %w", err)
		}
		p.ThumbRef = thumbRef
	}
	return p, nil
}

// Discard removes staged files. Best effort; missing files are fine.
func (s *Disk) Discard(_ context.Context, p Placement) {
	if p.BlobRef != "" {
		_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(p.BlobRef)))
	}
	if p.ThumbRef != "" {
		_ = os.Remove(filepath.Join(s.root, filepath.FromSlash(p.ThumbRef)))
	}
}

// read resolves a reference under the root, refusing traversal outside it.
func (s *Disk) read(ref string) ([]byte, error) {
	clean := path.Clean(ref)
	if clean == "." || strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		return nil, errs.ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Payload reads the photo's blob from disk.
func (s *Disk) Payload(_ context.Context, photo *model.Photo) ([]byte, error) {
	if photo.BlobRef == "" {
		return nil, errs.ErrNotFound
	}
	return s.read(photo.BlobRef)
}

// Thumbnail reads the stored thumbnail, if one was written at upload time.
func (s *Disk) Thumbnail(_ context.Context, photo *model.Photo) ([]byte, error) {
	if photo.ThumbRef == "" {
		return nil, errs.ErrNotFound
	}
	return s.read(photo.ThumbRef)
}
