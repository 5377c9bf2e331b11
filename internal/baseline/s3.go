// Copyright (c) 2026 The astrojobs Authors.
// SPDX-License-Identifier: Apache-2.0

package baseline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	awsx "github.com/astrojobs/astrojobs/internal/aws"
	"github.com/astrojobs/astrojobs/internal/listing"
	"github.com/astrojobs/astrojobs/internal/log"
)

// ObjectAPI is the part of the S3 client the store uses.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3v2.PutObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error)
}

// S3 keeps baselines as objects under a key prefix in a bucket.
type S3 struct {
	client ObjectAPI
	bucket string
	prefix string
}

// NewS3 returns an S3 store using client.
func NewS3(client ObjectAPI, bucket, prefix string) (*S3, error) {
	if bucket == "" {
		return nil, errors.New("s3 store requires a bucket")
	}
	return &S3{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}, nil
}

// OpenS3 loads the AWS config chain, applies the region, profile, retry and
// endpoint overrides in s and returns an S3 store.
func OpenS3(ctx context.Context, s Settings) (*S3, error) {
	var cfgOpts []awsx.Option
	if s.Region != "" {
		cfgOpts = append(cfgOpts, awsx.WithRegion(s.Region))
	}
	if s.Profile != "" {
		cfgOpts = append(cfgOpts, awsx.WithProfile(s.Profile))
	}
	if s.MaxAttempts > 0 {
		attempts := s.MaxAttempts
		cfgOpts = append(cfgOpts, awsx.WithRetryer(func() awsv2.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), attempts)
		}))
	}

	cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3(awsx.NewS3(cfg, awsx.WithS3Endpoint(s.Endpoint)), s.Bucket, s.Prefix)
}

// Key returns the object key holding the baseline for c.
func (s *S3) Key(c listing.Category) string {
	if s.prefix == "" {
		return FileName(c)
	}
	return path.Join(s.prefix, FileName(c))
}

// Load fetches the baseline object for c. A missing object is an empty
// baseline.
func (s *S3) Load(ctx context.Context, c listing.Category) (Baseline, error) {
	b := Baseline{Category: c, Lines: []string{}}
	key := s.Key(c)

	out, err := s.client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(s.bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			log.Debugf("no baseline object: bucket=%s key=%s", s.bucket, key)
			return b, nil
		}
		return b, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return b, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	b.Lines = decode(data)
	b.Exists = true
	if out.LastModified != nil {
		b.UpdatedAt = *out.LastModified
	}
	log.Debugf("loaded baseline: bucket=%s key=%s lines=%d", s.bucket, key, len(b.Lines))
	return b, nil
}

// Save overwrites the baseline object for c.
func (s *S3) Save(ctx context.Context, c listing.Category, lines []string) error {
	key := s.Key(c)
	_, err := s.client.PutObject(ctx, &s3v2.PutObjectInput{
		Bucket:      awsv2.String(s.bucket),
		Key:         awsv2.String(key),
		Body:        bytes.NewReader(encode(lines)),
		ContentType: awsv2.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("failed to put S3 object: %w", err)
	}
	log.Debugf("saved baseline: bucket=%s key=%s lines=%d", s.bucket, key, len(lines))
	return nil
}

// isNotFound reports whether err means the object does not exist. Some S3
// compatible services answer with a bare NotFound code instead of the typed
// NoSuchKey error.
func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
