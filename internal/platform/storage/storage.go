// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage keeps the image files (movie posters and actor portraits) that
catalogue records refer to by file name.

Two backends implement [ImageStore]:

  - Disk: files under a local uploads directory.
  - S3: objects in an S3-compatible bucket (AWS, MinIO, Cloudflare R2).

Records are always written before their file is removed, so a failure between
the two steps can leave an orphaned file but never a record pointing at
nothing.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/ctxutil"
	"github.com/taibuivan/cinemateca/pkg/slug"
)

// # Contracts

// ImageStore persists image bytes under a flat file name.
type ImageStore interface {
	// Save writes content under name, replacing any previous file.
	Save(context context.Context, name string, content io.Reader, contentType string) error

	// Open streams a stored file. It returns apperr.NotFound when missing.
	Open(context context.Context, name string) (*Object, error)

	// Delete removes a stored file. Missing files are not an error.
	Delete(context context.Context, name string) error
}

// Object is an opened image.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// # Uploads

// Accepted image types, keyed by MIME type.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Upload is an image received from a client, already read into memory.
type Upload struct {
	// Filename is the client-side name, used only for logging.
	Filename string
	// Content holds the raw bytes.
	Content []byte
	// ContentType is detected from Content, never taken from the client.
	ContentType string
	// Extension matches ContentType (".jpg" or ".png").
	Extension string
}

// ReadUpload reads and sniffs an uploaded image. It returns a VALIDATION_ERROR
// naming field when the content is empty or not a JPEG/PNG image.
func ReadUpload(field, filename string, reader io.Reader) (*Upload, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperr.BadRequest("Could not read uploaded file")
	}

	if len(content) == 0 {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field: field, Type: "emptyFields", Message: "The uploaded file is empty",
		})
	}

	detected := mimetype.Detect(content)
	extension, ok := allowedTypes[detected.String()]
	if !ok {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   field,
			Type:    "invalidImage",
			Message: fmt.Sprintf("Only JPG and PNG images are accepted (got %s)", detected.String()),
		})
	}

	return &Upload{
		Filename:    filename,
		Content:     content,
		ContentType: detected.String(),
		Extension:   extension,
	}, nil
}

// Reader returns a fresh reader over the upload's bytes.
func (upload *Upload) Reader() io.Reader {
	return bytes.NewReader(upload.Content)
}

// FileName builds the stored name for an image: the slug of label, an
// optional year suffix, the upload token and the upload's extension.
// Callers pass a fresh token per upload, so a name is never shared by two
// records or two versions of one image.
//
// Example:
//
//	FileName("The Matrix", 1999, "0f1e", ".jpg") // "the-matrix_1999-0f1e.jpg"
//	FileName("Keanu Reeves", 0, "", ".png")      // "keanu-reeves.png"
func FileName(label string, year int, token, extension string) string {
	base := slug.From(label)
	if base == "" {
		base = "image"
	}
	if year > 0 {
		base += slug.YearSeparator + strconv.Itoa(year)
	}
	if token != "" {
		base += "-" + token
	}
	return base + extension
}

// # Cleanup

// DeleteQuietly removes a file and logs, rather than returns, any failure.
// Image cleanup runs after the owning record changed and must not undo it.
func DeleteQuietly(context context.Context, store ImageStore, name string) {
	if strings.TrimSpace(name) == "" {
		return
	}

	logger := ctxutil.GetLogger(context)
	if err := store.Delete(ctxutil.Detach(context), name); err != nil {
		logger.WarnContext(context, "image_delete_failed",
			slog.String("file", name),
			slog.Any("error", err),
		)
		return
	}

	logger.InfoContext(context, "image_deleted", slog.String("file", name))
}
