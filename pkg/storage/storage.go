package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
	ErrInvalidKey      = errors.New("invalid object key")
)

// Object describes a stored file.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// Store is the object storage used for uploads.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (Object, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// Policy restricts what an upload may contain.
type Policy struct {
	MaxSize int64
	// Allowed holds mime types; an entry ending in "/" matches a whole family (e.g. "image/").
	Allowed []string
}

var (
	PhotoPolicy = Policy{MaxSize: 5 << 20, Allowed: []string{"image/"}}

	DocumentPolicy = Policy{MaxSize: 10 << 20, Allowed: []string{
		"application/pdf",
		"image/",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.ms-excel",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.oasis.opendocument.text",
		"application/vnd.oasis.opendocument.spreadsheet",
		"text/plain",
	}}
)

// Check sniffs the content and returns the detected mime type and extension.
func (p Policy) Check(data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}
	if p.MaxSize > 0 && int64(len(data)) > p.MaxSize {
		return "", "", ErrTooLarge
	}
	mt := mimetype.Detect(data)
	for _, allowed := range p.Allowed {
		for m := mt; m != nil; m = m.Parent() {
			base := strings.SplitN(m.String(), ";", 2)[0]
			if base == allowed || (strings.HasSuffix(allowed, "/") && strings.HasPrefix(base, allowed)) {
				return mt.String(), mt.Extension(), nil
			}
		}
	}
	return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
}

// AtivoKey builds the key of a file owned by an asset: ativos/<ativo_id>/<uuid><ext>.
func AtivoKey(ativoID, ext string) string {
	return path.Join("ativos", ativoID, uuid.NewString()+ext)
}

// CondominioKey builds the key of a condominio cover image.
func CondominioKey(condominioID, ext string) string {
	return path.Join("condominios", condominioID, uuid.NewString()+ext)
}

// KeyOf returns the key behind a URL produced by s. URLs from elsewhere report false.
func KeyOf(s Store, url string) (string, bool) {
	prefix := s.URL("")
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

type localStore struct {
	root    string
	baseURL string
}

// NewLocalStore stores objects below dir; URLs are baseURL + "/uploads/" + key.
func NewLocalStore(dir, baseURL string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{root: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *localStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func (s *localStore) Put(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	p, err := s.resolve(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Object{}, fmt.Errorf("create object dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("create temp object: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return Object{}, fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return Object{}, err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		os.Remove(tmp.Name())
		return Object{}, fmt.Errorf("commit object: %w", err)
	}

	return Object{Key: key, URL: s.URL(key), ContentType: contentType, Size: int64(len(data))}, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	p, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *localStore) URL(key string) string {
	return s.baseURL + "/uploads/" + strings.TrimLeft(key, "/")
}
