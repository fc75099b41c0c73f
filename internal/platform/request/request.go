// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and the body
decoding patterns (JSON and multipart forms with an image), ensuring
consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/constants"
	"github.com/taibuivan/cinemateca/internal/platform/storage"
	"github.com/taibuivan/cinemateca/internal/platform/validate"
	"github.com/taibuivan/cinemateca/pkg/query"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target any) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.TooLarge(tooLarge.Limit)
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// # Forms

/*
ParseForm parses a multipart or URL-encoded form body.

Description: Bodies cut off by the size guard surface as 413 instead of a
generic parse failure. A request that is not multipart falls back to plain
URL-encoded parsing so clients may omit the file entirely.

Parameters:
  - request: *http.Request

Returns:
  - error: apperr.TooLarge or apperr.BadRequest
*/
func ParseForm(request *http.Request) error {
	err := request.ParseMultipartForm(constants.MultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = request.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.TooLarge(tooLarge.Limit)
	}
	return apperr.BadRequest("Malformed form body")
}

// FormText returns the first value of a parsed form field, trimmed.
func FormText(request *http.Request, key string) string {
	return query.Text(request.PostForm, key)
}

// FormValues returns every value of a parsed form field ("key" or "key[]").
func FormValues(request *http.Request, key string) []string {
	return query.Multi(request.PostForm, key)
}

// FormRaw returns every raw value of a parsed form field, blanks included,
// for fields whose entries pair up by index.
func FormRaw(request *http.Request, key string) []string {
	if values := request.PostForm[key+"[]"]; len(values) > 0 {
		return values
	}
	return request.PostForm[key]
}

/*
Upload reads the image sent in a multipart file field.

Parameters:
  - request: *http.Request (already parsed with [ParseForm])
  - field: string (Form field name)

Returns:
  - *storage.Upload: The sniffed image, or nil when no file was sent
  - error: VALIDATION_ERROR for empty or non-image files
*/
func Upload(request *http.Request, field string) (*storage.Upload, error) {
	if request.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.BadRequest("Could not read uploaded file")
	}
	defer file.Close()

	// Browsers submit an empty part when the file input is left blank
	if header.Size == 0 && header.Filename == "" {
		return nil, nil
	}

	return storage.ReadUpload(field, header.Filename, file)
}
