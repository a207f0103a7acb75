package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fallbackRegion is used with a custom endpoint when no region is set;
// S3-compatible servers ignore it but the SDK refuses to sign without one.
const fallbackRegion = "us-east-1"

type S3Options struct {
	Region string
	// Endpoint points the client at an S3-compatible server (LocalStack, R2).
	Endpoint string
	// AccessKey and SecretKey are optional; empty uses the default AWS chain.
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// S3Adapter stores objects in AWS S3 or an S3-compatible server.
type S3Adapter struct {
	client *s3.Client
}

func NewS3(ctx context.Context, opts S3Options) (*S3Adapter, error) {
	var load []func(*config.LoadOptions) error

	region := opts.Region
	if region == "" && opts.Endpoint != "" {
		region = fallbackRegion
	}
	if region != "" {
		load = append(load, config.WithRegion(region))
	}
	if opts.AccessKey != "" || opts.SecretKey != "" {
		load = append(load, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, load...)
	if err != nil {
		return nil, fmt.Errorf("storage: aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	return &S3Adapter{client: client}, nil
}

func (s *S3Adapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	body, err := nonEmpty(r, opts.Size)
	if err != nil {
		return ObjectInfo{}, err
	}

	in := &s3.PutObjectInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		Body:     body,
		Metadata: opts.Metadata,
	}
	if opts.ContentType != "" {
		in.ContentType = aws.String(opts.ContentType)
	}
	if opts.CacheControl != "" {
		in.CacheControl = aws.String(opts.CacheControl)
	}
	if opts.Size > 0 {
		in.ContentLength = aws.Int64(opts.Size)
	}

	out, err := s.client.PutObject(ctx, in)
	if err != nil {
		return ObjectInfo{}, err
	}

	return ObjectInfo{
		Bucket:      bucket,
		Key:         key,
		Size:        opts.Size,
		ETag:        aws.ToString(out.ETag),
		ContentType: opts.ContentType,
	}, nil
}

func (s *S3Adapter) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	return err
}

func (s *S3Adapter) Close() error { return nil }
