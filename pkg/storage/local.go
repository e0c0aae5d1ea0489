package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// ImageStore persists generated image bytes and hands back an opaque reference.
type ImageStore interface {
	Save(ctx context.Context, id string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// LocalStore writes files under Dir and serves them at URLPrefix.
type LocalStore struct {
	Dir       string
	URLPrefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *LocalStore) Save(ctx context.Context, id string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("invalid image id %q", id)
	}
	name := id + extensionFor(contentType)

	// write then rename so readers never see a partial file
	tmp, err := os.CreateTemp(s.Dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, name)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return s.URLPrefix + "/" + name, nil
}

func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	if !strings.HasPrefix(ref, s.URLPrefix+"/") {
		return nil
	}
	name := filepath.Base(strings.TrimPrefix(ref, s.URLPrefix+"/"))
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png", "":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
