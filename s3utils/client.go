// Package s3utils provides a thin convenience client for S3: listing with
// pagination handled, get with the body drained, presigned URLs, and
// prefix-wide delete and copy. Each method is a direct pass-through to the
// wrapped SDK; operations not covered here are reachable through RawClient.
package s3utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrNoPrefixInKey is returned when a listed key unexpectedly does not
// start with the prefix it was listed under.
var ErrNoPrefixInKey = errors.New("no prefix in key")

// Client wraps an S3 client and its presigner.
type Client struct {
	s3      S3API
	presign Presigner
}

// NewClient builds a client from an API and a presigner. Intended for
// tests; production code usually goes through FromS3Client or FromConfig.
func NewClient(api S3API, presigner Presigner) *Client {
	return &Client{s3: api, presign: presigner}
}

// FromS3Client wraps an existing S3 client.
func FromS3Client(client *s3.Client) *Client {
	return NewClient(client, s3.NewPresignClient(client))
}

// FromConfig builds a client from an AWS config.
func FromConfig(cfg aws.Config) *Client {
	return FromS3Client(s3.NewFromConfig(cfg))
}

// FromEnv builds a client using the default AWS config chain.
func FromEnv(ctx context.Context) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg), nil
}

// Minio builds a client for a local minio endpoint with static credentials
// and path-style addressing.
func Minio(user, pass, endpoint string) *Client {
	cfg := aws.Config{
		Region:      "ap-northeast-1",
		Credentials: credentials.NewStaticCredentialsProvider(user, pass, ""),
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return FromS3Client(client)
}

// RawClient exposes the wrapped client for operations this package does not
// cover.
func (c *Client) RawClient() S3API {
	return c.s3
}

// ObjectInfo describes one listed object.
type ObjectInfo struct {
	Key          string
	LastModified *time.Time
	ETag         *string
	Size         *int64
}

// ForEachObject walks every object under prefix, following pagination, and
// calls fn for each. A non-nil error from fn stops the walk.
func (c *Client) ForEachObject(ctx context.Context, bucket, prefix string, fn func(types.Object) error) error {
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("list objects: %w", err)
		}
		for _, obj := range page.Contents {
			if err := fn(obj); err != nil {
				return err
			}
		}
	}
	return nil
}

// ListObjects returns info for every object under prefix. Objects without a
// key are skipped.
func (c *Client) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	var infos []ObjectInfo
	err := c.ForEachObject(ctx, bucket, prefix, func(obj types.Object) error {
		if obj.Key == nil {
			return nil
		}
		infos = append(infos, ObjectInfo{
			Key:          *obj.Key,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
			Size:         obj.Size,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return infos, nil
}

// ListPaths returns the full key of every object under prefix.
func (c *Client) ListPaths(ctx context.Context, bucket, prefix string) ([]string, error) {
	var paths []string
	err := c.ForEachObject(ctx, bucket, prefix, func(obj types.Object) error {
		if obj.Key != nil {
			paths = append(paths, *obj.Key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ListFileNames returns the key of every object under prefix with the
// prefix stripped. Keys that do not start with the prefix are skipped.
func (c *Client) ListFileNames(ctx context.Context, bucket, prefix string) ([]string, error) {
	var names []string
	err := c.ForEachObject(ctx, bucket, prefix, func(obj types.Object) error {
		if obj.Key == nil {
			return nil
		}
		if name, ok := strings.CutPrefix(*obj.Key, prefix); ok {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// GetObjectRaw fetches an object and returns the raw SDK output. The caller
// owns the body stream.
func (c *Client) GetObjectRaw(ctx context.Context, bucket, key string) (*s3.GetObjectOutput, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out, nil
}

// GetObject fetches an object and drains its body into memory.
func (c *Client) GetObject(ctx context.Context, bucket, key string) (*Object, error) {
	out, err := c.GetObjectRaw(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	buf, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return &Object{
		contentType: aws.ToString(out.ContentType),
		buf:         buf,
	}, nil
}

// PutObject stores body under key.
func (c *Client) PutObject(ctx context.Context, bucket, contentType, contentDisposition, key string, body io.Reader) (*s3.PutObjectOutput, error) {
	out, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(bucket),
		Key:                aws.String(key),
		ContentType:        aws.String(contentType),
		ContentDisposition: aws.String(contentDisposition),
		Body:               body,
	})
	if err != nil {
		return nil, fmt.Errorf("put object: %w", err)
	}
	return out, nil
}

// PutObjectFromFile streams a local file to S3.
func (c *Client) PutObjectFromFile(ctx context.Context, bucket, contentType, contentDisposition, key, path string) (*s3.PutObjectOutput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return c.PutObject(ctx, bucket, contentType, contentDisposition, key, f)
}

// PresignGet returns a presigned GET request for the object, valid for
// expire.
func (c *Client) PresignGet(ctx context.Context, bucket, key string, expire time.Duration) (*v4.PresignedHTTPRequest, error) {
	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expire))
	if err != nil {
		return nil, fmt.Errorf("presign get: %w", err)
	}
	return req, nil
}

// PresignGetURL returns only the URL of a presigned GET request.
func (c *Client) PresignGetURL(ctx context.Context, bucket, key string, expire time.Duration) (string, error) {
	req, err := c.PresignGet(ctx, bucket, key, expire)
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignPut returns a presigned PUT request for the object, valid for
// expire.
func (c *Client) PresignPut(ctx context.Context, bucket, key string, expire time.Duration) (*v4.PresignedHTTPRequest, error) {
	req, err := c.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expire))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}
	return req, nil
}

// PresignPutURL returns only the URL of a presigned PUT request.
func (c *Client) PresignPutURL(ctx context.Context, bucket, key string, expire time.Duration) (string, error) {
	req, err := c.PresignPut(ctx, bucket, key, expire)
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// Delete deletes one object.
func (c *Client) Delete(ctx context.Context, bucket, key string) (*s3.DeleteObjectOutput, error) {
	out, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("delete object: %w", err)
	}
	return out, nil
}

// DeleteByPrefix deletes every object under prefix, one batch per listing
// page, and returns the merged outcome. The output is nil when nothing was
// listed.
func (c *Client) DeleteByPrefix(ctx context.Context, bucket, prefix string) (*s3.DeleteObjectsOutput, error) {
	paginator := s3.NewListObjectsV2Paginator(c.s3, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	})

	var merged *s3.DeleteObjectsOutput
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		if len(page.Contents) == 0 {
			continue
		}

		ids := make([]types.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			ids = append(ids, types.ObjectIdentifier{Key: obj.Key})
		}
		out, err := c.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{Objects: ids},
		})
		if err != nil {
			return nil, fmt.Errorf("delete objects: %w", err)
		}

		if merged == nil {
			merged = out
		} else {
			merged.Deleted = append(merged.Deleted, out.Deleted...)
			merged.Errors = append(merged.Errors, out.Errors...)
		}
	}
	return merged, nil
}

// CopyObject copies one object, possibly across buckets.
func (c *Client) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) (*s3.CopyObjectOutput, error) {
	source := url.PathEscape(srcBucket) + "/" + url.PathEscape(srcKey)
	out, err := c.s3.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(source),
	})
	if err != nil {
		return nil, fmt.Errorf("copy object: %w", err)
	}
	return out, nil
}

// CopyObjectsByPrefix copies every object under srcPrefix to the
// corresponding key under dstPrefix.
func (c *Client) CopyObjectsByPrefix(ctx context.Context, srcBucket, srcPrefix, dstBucket, dstPrefix string) ([]*s3.CopyObjectOutput, error) {
	var outs []*s3.CopyObjectOutput
	err := c.ForEachObject(ctx, srcBucket, srcPrefix, func(obj types.Object) error {
		if obj.Key == nil {
			return nil
		}
		rest, ok := strings.CutPrefix(*obj.Key, srcPrefix)
		if !ok {
			return ErrNoPrefixInKey
		}
		out, err := c.CopyObject(ctx, srcBucket, *obj.Key, dstBucket, dstPrefix+"/"+rest)
		if err != nil {
			return err
		}
		outs = append(outs, out)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// WithBucket returns a view of the client bound to one bucket.
func (c *Client) WithBucket(bucket string) *ClientWithBucket {
	return &ClientWithBucket{client: c, bucket: bucket}
}
