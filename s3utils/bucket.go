package s3utils

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ClientWithBucket is a Client bound to one bucket. It shares the
// underlying transport with the client that created it.
type ClientWithBucket struct {
	client *Client
	bucket string
}

// Bucket returns the bound bucket name.
func (c *ClientWithBucket) Bucket() string {
	return c.bucket
}

func (c *ClientWithBucket) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	return c.client.ListObjects(ctx, c.bucket, prefix)
}

func (c *ClientWithBucket) ListFileNames(ctx context.Context, prefix string) ([]string, error) {
	return c.client.ListFileNames(ctx, c.bucket, prefix)
}

func (c *ClientWithBucket) GetObject(ctx context.Context, key string) (*Object, error) {
	return c.client.GetObject(ctx, c.bucket, key)
}

func (c *ClientWithBucket) PutObject(ctx context.Context, contentType, contentDisposition, key string, body io.Reader) (*s3.PutObjectOutput, error) {
	return c.client.PutObject(ctx, c.bucket, contentType, contentDisposition, key, body)
}

func (c *ClientWithBucket) PresignGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	return c.client.PresignGetURL(ctx, c.bucket, key, expire)
}

func (c *ClientWithBucket) PresignPutURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	return c.client.PresignPutURL(ctx, c.bucket, key, expire)
}

func (c *ClientWithBucket) Delete(ctx context.Context, key string) (*s3.DeleteObjectOutput, error) {
	return c.client.Delete(ctx, c.bucket, key)
}

func (c *ClientWithBucket) DeleteByPrefix(ctx context.Context, prefix string) (*s3.DeleteObjectsOutput, error) {
	return c.client.DeleteByPrefix(ctx, c.bucket, prefix)
}
