// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
)

// diskStore implements [ImageStore] on the local filesystem.
type diskStore struct {
	root string
}

// NewDisk returns an [ImageStore] rooted at dir, creating it if needed.
func NewDisk(dir string) (ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create uploads dir: %w", err)
	}
	return &diskStore{root: dir}, nil
}

// path resolves a flat file name inside the root, rejecting traversal.
func (store *diskStore) path(name string) (string, error) {
	clean := filepath.Base(name)
	if clean != name || clean == "." || clean == ".." || strings.ContainsAny(name, `/\`) {
		return "", apperr.BadRequest("Invalid file name")
	}
	return filepath.Join(store.root, clean), nil
}

// Save writes to a temporary file first so readers never observe a partial image.
func (store *diskStore) Save(_ context.Context, name string, content io.Reader, _ string) error {
	target, err := store.path(name)
	if err != nil {
		return err
	}

	temp, err := os.CreateTemp(store.root, ".upload-*")
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: create temp file: %w", err))
	}
	defer os.Remove(temp.Name())

	if _, err := io.Copy(temp, content); err != nil {
		temp.Close()
		return apperr.Internal(fmt.Errorf("storage: write %s: %w", name, err))
	}
	if err := temp.Close(); err != nil {
		return apperr.Internal(fmt.Errorf("storage: close %s: %w", name, err))
	}

	if err := os.Rename(temp.Name(), target); err != nil {
		return apperr.Internal(fmt.Errorf("storage: rename %s: %w", name, err))
	}
	return nil
}

func (store *diskStore) Open(_ context.Context, name string) (*Object, error) {
	target, err := store.path(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.NotFound("Image")
		}
		return nil, apperr.Internal(fmt.Errorf("storage: open %s: %w", name, err))
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, apperr.Internal(fmt.Errorf("storage: stat %s: %w", name, err))
	}

	return &Object{
		Body:        file,
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
		Size:        info.Size(),
	}, nil
}

func (store *diskStore) Delete(_ context.Context, name string) error {
	target, err := store.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}
