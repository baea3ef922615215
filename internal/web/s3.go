// Media store backed by an S3 bucket

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3FileStore implements FileStore with HeadObject and ranged GetObject.
type S3FileStore struct {
	client       *s3.Client
	bucket       string
	prefix       string
	region       string
	endpoint     string
	requestPayer string
}

var _ FileStore = (*S3FileStore)(nil)

type S3Option func(s *S3FileStore)

// WithS3Client uses cl instead of a client built from the default AWS config.
func WithS3Client(cl *s3.Client) S3Option {
	return func(s *S3FileStore) {
		s.client = cl
	}
}

func WithS3Region(region string) S3Option {
	return func(s *S3FileStore) {
		s.region = region
	}
}

// WithS3Endpoint targets an S3-compatible server (MinIO and the like) with
// path-style addressing.
func WithS3Endpoint(endpoint string) S3Option {
	return func(s *S3FileStore) {
		s.endpoint = endpoint
	}
}

func WithRequestPayer() S3Option {
	return func(s *S3FileStore) {
		s.requestPayer = "requester"
	}
}

func NewS3FileStore(ctx context.Context, bucket, prefix string, opts ...S3Option) (*S3FileStore, error) {
	store := &S3FileStore{
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
	for _, o := range opts {
		o(store)
	}

	if store.client == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if store.region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(store.region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		store.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			if store.endpoint != "" {
				o.BaseEndpoint = aws.String(store.endpoint)
				o.UsePathStyle = true
			}
		})
	}
	return store, nil
}

func (s *S3FileStore) key(name string) string {
	name = strings.TrimLeft(path.Clean("/"+name), "/")
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}

func (s *S3FileStore) head(ctx context.Context, name string) (*s3.HeadObjectOutput, error) {
	key := s.key(name)
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		RequestPayer: types.RequestPayer(s.requestPayer),
	})
	if err != nil {
		return nil, s3Error(name, fmt.Errorf("head s3://%s/%s: %w", s.bucket, key, err))
	}
	return out, nil
}

func (s *S3FileStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.head(ctx, name)
	if IsNotFound(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *S3FileStore) Length(ctx context.Context, name string) (int64, error) {
	out, err := s.head(ctx, name)
	if err != nil {
		return 0, err
	}
	return aws.ToInt64(out.ContentLength), nil
}

// OpenRangeReader issues GetObject with a Range from start, open-ended when
// length is zero. The body is consumed lazily by the caller.
func (s *S3FileStore) OpenRangeReader(ctx context.Context, name string, start, length int64) (io.ReadCloser, error) {
	key := s.key(name)
	rng := fmt.Sprintf("bytes=%d-", start)
	if length > 0 {
		rng += strconv.FormatInt(start+length-1, 10)
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		RequestPayer: types.RequestPayer(s.requestPayer),
		Range:        aws.String(rng),
	})
	if err != nil {
		err = s3Error(name, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err))
		if errors.Is(err, io.EOF) {
			return io.NopCloser(strings.NewReader("")), nil
		}
		return nil, err
	}
	return out.Body, nil
}

// s3Error maps S3 API error codes to store errors. InvalidRange means the
// offset is past the end of the object and is reported as io.EOF.
func s3Error(name string, err error) error {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return err
	}
	switch ae.ErrorCode() {
	case "InvalidRange":
		return io.EOF
	case "NoSuchBucket", "NoSuchKey", "NotFound":
		return &NotFoundError{Name: name}
	}
	return err
}
