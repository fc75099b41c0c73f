// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package storagetest provides an in-memory [storage.ImageStore] for tests.
package storagetest

import (
	"bytes"
	"context"
	"io"
	"sort"
	"sync"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/storage"
)

type file struct {
	content     []byte
	contentType string
}

// Memory keeps images in a map.
type Memory struct {
	mu    sync.Mutex
	files map[string]file
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{files: map[string]file{}}
}

func (memory *Memory) Save(_ context.Context, name string, content io.Reader, contentType string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}

	memory.mu.Lock()
	defer memory.mu.Unlock()
	memory.files[name] = file{content: data, contentType: contentType}
	return nil
}

func (memory *Memory) Open(_ context.Context, name string) (*storage.Object, error) {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	stored, ok := memory.files[name]
	if !ok {
		return nil, apperr.NotFound("Image")
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(stored.content)),
		ContentType: stored.contentType,
		Size:        int64(len(stored.content)),
	}, nil
}

func (memory *Memory) Delete(_ context.Context, name string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	delete(memory.files, name)
	return nil
}

// Has reports whether name is stored.
func (memory *Memory) Has(name string) bool {
	memory.mu.Lock()
	defer memory.mu.Unlock()
	_, ok := memory.files[name]
	return ok
}

// Names lists the stored file names, sorted.
func (memory *Memory) Names() []string {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	names := make([]string, 0, len(memory.files))
	for name := range memory.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
