package storage

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// imagesSubdir is the folder under the upload directory that holds todo
// attachments, and the path segment under which they are served.
const imagesSubdir = "todo_images"

// LocalStore keeps attachments on the local filesystem. Files live under
// <Dir>/todo_images and are served by the HTTP layer at
// <BaseURL>/uploads/<name>.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the upload directory when missing and returns a
// LocalStore rooted there.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	full := filepath.Join(dir, imagesSubdir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory the HTTP layer should serve at /uploads.
func (s *LocalStore) Root() string { return s.dir }

// Store validates the content type, streams the upload to a new file and
// returns its public URL. The file name embeds the owner id, a timestamp
// and a random suffix so concurrent uploads never collide.
func (s *LocalStore) Store(ctx context.Context, ownerID uint64, r io.Reader, contentType string) (string, error) {
	ext, err := extForType(contentType)
	if err != nil {
		return "", err
	}
	name := newKey(ownerID) + ext
	dst := filepath.Join(s.dir, imagesSubdir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst) // drop the partial file
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return "", err
	}
	return s.baseURL + "/uploads/" + imagesSubdir + "/" + name, nil
}

// Delete removes the file behind a URL produced by Store. A file that is
// already gone is treated as deleted. URLs pointing outside the managed
// folder are ignored rather than resolved against the filesystem.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	marker := "/uploads/" + imagesSubdir + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return nil
	}
	name := path.Base(url[idx+len(marker):])
	if name == "." || name == "/" || name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, imagesSubdir, name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
