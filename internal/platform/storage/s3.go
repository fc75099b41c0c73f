// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
)

// S3Options configures [NewS3].
type S3Options struct {
	Bucket string
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible providers.
	Endpoint string
	// AccessKey and SecretKey are optional; the default AWS credential chain
	// is used when they are empty.
	AccessKey string
	SecretKey string
	// Prefix is prepended to every object key ("images/").
	Prefix string
}

// s3Store implements [ImageStore] on an S3 bucket.
type s3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 builds an S3 client from options and verifies the bucket is reachable.
func NewS3(ctx context.Context, options S3Options, logger *slog.Logger) (ImageStore, error) {
	loaders := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(options.Region),
	}
	if options.AccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(options.AccessKey, options.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if options.Endpoint != "" {
			o.BaseEndpoint = aws.String(options.Endpoint)
			o.UsePathStyle = true
		}
	})

	store := &s3Store{client: client, bucket: options.Bucket, prefix: options.Prefix}

	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(options.Bucket)}); err != nil {
		return nil, fmt.Errorf("storage: bucket %q is not reachable: %w", options.Bucket, err)
	}

	logger.Info("s3_storage_ready",
		slog.String("bucket", options.Bucket),
		slog.String("region", options.Region),
	)
	return store, nil
}

func (store *s3Store) key(name string) string {
	return path.Join(store.prefix, path.Base(name))
}

func (store *s3Store) Save(ctx context.Context, name string, content io.Reader, contentType string) error {
	_, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(store.key(name)),
		Body:        content,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return apperr.Internal(fmt.Errorf("storage: put %s: %w", name, err))
	}
	return nil
}

func (store *s3Store) Open(ctx context.Context, name string) (*Object, error) {
	output, err := store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(store.key(name)),
	})
	if err != nil {
		if isMissing(err) {
			return nil, apperr.NotFound("Image")
		}
		return nil, apperr.Internal(fmt.Errorf("storage: get %s: %w", name, err))
	}

	return &Object{
		Body:        output.Body,
		ContentType: aws.ToString(output.ContentType),
		Size:        aws.ToInt64(output.ContentLength),
	}, nil
}

func (store *s3Store) Delete(ctx context.Context, name string) error {
	_, err := store.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(store.key(name)),
	})
	if err != nil && !isMissing(err) {
		return fmt.Errorf("storage: delete %s: %w", name, err)
	}
	return nil
}

// isMissing reports whether err is an S3 "no such key" response.
func isMissing(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var apiError smithy.APIError
	return errors.As(err, &apiError) && apiError.ErrorCode() == "NoSuchKey"
}
