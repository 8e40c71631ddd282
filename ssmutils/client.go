// Package ssmutils provides a thin client for the SSM Parameter Store with
// a pluggable read-through cache and a mock mode for local development.
package ssmutils

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// Client reads parameters from SSM through a cache strategy C. The strategy
// is chosen at construction and fixed for the client's lifetime.
//
// A nil ParamStore puts the client in mock mode: lookups are satisfied from
// the cache (which MockFromMap seeds as the data source) and then from
// environment variables, never from the network.
//
// Copying a Client shares the cache when C is a pointer type; all handles
// derived from one construction observe the same entries.
type Client[C Cache] struct {
	ssm   ParamStore
	cache C
}

// FromSSMClient wraps an existing SSM client (or any ParamStore) without
// caching.
func FromSSMClient(api ParamStore) *Client[NoCache] {
	return &Client[NoCache]{ssm: api}
}

// FromConfig builds a client from an AWS config without caching.
func FromConfig(cfg aws.Config) *Client[NoCache] {
	return FromSSMClient(ssm.NewFromConfig(cfg))
}

// FromEnv builds a client using the default AWS config chain (environment,
// shared config files, instance metadata).
func FromEnv(ctx context.Context) (*Client[NoCache], error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg), nil
}

// Mock returns a client with no transport. Get resolves keys from
// environment variables only.
func Mock() *Client[NoCache] {
	return &Client[NoCache]{}
}

// MockFromMap returns a mock client whose cache is seeded with m, so the
// map doubles as the data source. Keys missing from m fall back to
// environment variables.
func MockFromMap(m map[string]string) *Client[*MapCache] {
	return &Client[*MapCache]{cache: NewMapCacheFromMap(m)}
}

// WithCache upgrades c to cache fetched values in an unbounded shared map.
func WithCache(c *Client[NoCache]) *Client[*MapCache] {
	return &Client[*MapCache]{ssm: c.ssm, cache: NewMapCache()}
}

// WithCacheExpire upgrades c to cache fetched values in a bounded cache
// whose entries expire after ttl (at most DefaultCapacity entries).
func WithCacheExpire(c *Client[NoCache], ttl time.Duration) *Client[*ExpireCache] {
	return &Client[*ExpireCache]{ssm: c.ssm, cache: NewExpireCache(ttl)}
}

// WithCacheRaw upgrades c to use a caller-supplied cache strategy.
func WithCacheRaw[C Cache](c *Client[NoCache], cache C) *Client[C] {
	return &Client[C]{ssm: c.ssm, cache: cache}
}

// Get returns the value for key. The cache is consulted first; a hit never
// touches the network. On a miss a mock client checks the environment for a
// variable named key, then for the normalized form (path separators, '-'
// and '.' replaced by '_', upper-cased, leading '/' dropped). A live client
// fetches the parameter with decryption and caches the value on success.
//
// Absent keys yield ErrNotFound; any other parameter store failure is
// returned as an *SSMError.
func (c *Client[C]) Get(ctx context.Context, key string) (string, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	if c.ssm == nil {
		return getFromEnv(key)
	}

	out, err := c.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(key),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		var nf *types.ParameterNotFound
		if errors.As(err, &nf) {
			return "", ErrNotFound
		}
		return "", &SSMError{Err: err}
	}
	if out.Parameter == nil || out.Parameter.Value == nil || *out.Parameter.Value == "" {
		return "", ErrNotFound
	}

	v := *out.Parameter.Value
	c.cache.Set(key, v)
	return v, nil
}

func getFromEnv(key string) (string, error) {
	if v, ok := os.LookupEnv(key); ok {
		return v, nil
	}
	if v, ok := os.LookupEnv(normalizeEnvKey(key)); ok {
		return v, nil
	}
	return "", ErrNotFound
}

// normalizeEnvKey turns a path-like parameter name into a conventional
// environment variable name: "/app/db-url" -> "APP_DB_URL".
func normalizeEnvKey(key string) string {
	key = strings.TrimPrefix(key, "/")
	key = strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(key)
	return strings.ToUpper(key)
}

// RawClient exposes the wrapped SSM client for operations this package does
// not cover. Calling it on a mock client is a programming error and panics.
func (c *Client[C]) RawClient() ParamStore {
	if c.ssm == nil {
		panic("ssmutils: RawClient called on a mock client")
	}
	return c.ssm
}

// IsMock reports whether the client has no transport.
func (c *Client[C]) IsMock() bool {
	return c.ssm == nil
}

// CacheStore returns the client's cache strategy.
func (c *Client[C]) CacheStore() C {
	return c.cache
}

// InsertToCache seeds the cache directly, bypassing the parameter store.
// Useful in tests as a stand-in for a real fetch.
func (c *Client[C]) InsertToCache(key, value string) {
	c.cache.Set(key, value)
}

// ClearCache drops every cached entry.
func (c *Client[C]) ClearCache() {
	c.cache.Clear()
}
