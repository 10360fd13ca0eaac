// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package fetch

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/csvfilter/internal/cacheutil"
	"github.com/tfctl/csvfilter/internal/log"
	"github.com/tfctl/csvfilter/internal/source"
)

// Scheme prefixes remote sources.
const Scheme = "s3://"

// API is the subset of the S3 client used here.
type API interface {
	ListObjectsV2(ctx context.Context, in *s3v2.ListObjectsV2Input, optFns ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// IsS3 reports whether p names an S3 object or pattern.
func IsS3(p string) bool {
	return strings.HasPrefix(p, Scheme)
}

// ParseURI splits s3://bucket/key into its parts.
func ParseURI(uri string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(uri, Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri needs a bucket and a key: %s", uri)
	}
	return bucket, key, nil
}

// S3Expander turns s3:// paths into local copies. Its Expand method is a
// source.ExpandFunc.
type S3Expander struct {
	ctx    context.Context
	client API
	dir    string
	tmp    bool
}

// NewS3Expander downloads into the cache when it is enabled, and into a
// private temporary directory otherwise. Call Close to remove the latter.
func NewS3Expander(ctx context.Context, client API) (*S3Expander, error) {
	x := &S3Expander{ctx: ctx, client: client}

	if base, ok, err := cacheutil.EnsureBaseDir(); ok && err == nil {
		x.dir = base
		return x, nil
	}

	dir, err := os.MkdirTemp("", "csvfilter-s3-")
	if err != nil {
		return nil, fmt.Errorf("creating download dir: %w", err)
	}
	x.dir, x.tmp = dir, true
	return x, nil
}

// Close removes downloads that were not cached.
func (x *S3Expander) Close() error {
	if !x.tmp {
		return nil
	}
	x.tmp = false
	return os.RemoveAll(x.dir)
}

// Expand returns local paths for every object matching uri, in key order. A
// literal key yields exactly one path or an error. A pattern is matched with
// path.Match against keys under its literal prefix; no matches is not an
// error.
func (x *S3Expander) Expand(uri string) ([]string, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	if !source.IsGlob(key) {
		p, err := x.download(bucket, key, "")
		if err != nil {
			return nil, err
		}
		return []string{p}, nil
	}

	objects, err := x.list(bucket, key)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(objects))
	for _, obj := range objects {
		p, err := x.download(bucket, obj.key, obj.etag)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

type object struct {
	key  string
	etag string
}

func (x *S3Expander) list(bucket, pattern string) ([]object, error) {
	prefix := pattern[:strings.IndexAny(pattern, "*?[")]

	var objects []object
	pager := s3v2.NewListObjectsV2Paginator(x.client, &s3v2.ListObjectsV2Input{
		Bucket: awsv2.String(bucket),
		Prefix: awsv2.String(prefix),
	})
	for pager.HasMorePages() {
		page, err := pager.NextPage(x.ctx)
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			k := awsv2.ToString(obj.Key)
			ok, err := path.Match(pattern, k)
			if err != nil {
				return nil, fmt.Errorf("bad pattern %s: %w", pattern, err)
			}
			if ok {
				objects = append(objects, object{key: k, etag: awsv2.ToString(obj.ETag)})
			}
		}
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].key < objects[j].key })
	log.Debugf("s3 list: bucket=%s pattern=%s matches=%d", bucket, pattern, len(objects))
	return objects, nil
}

// download fetches one object unless a copy with the same ETag is cached.
// An empty etag means it is not known yet and the cache is skipped.
func (x *S3Expander) download(bucket, key, etag string) (string, error) {
	subdirs := []string{"s3", bucket}
	if etag != "" && !x.tmp {
		if entry, ok := cacheutil.Lookup(subdirs, key+"@"+etag); ok {
			return entry.Path, nil
		}
	}

	out, err := x.client.GetObject(x.ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	if etag == "" {
		etag = awsv2.ToString(out.ETag)
	}
	entry, err := cacheutil.Store(x.dir, subdirs, key+"@"+etag, out.Body)
	if err != nil {
		return "", fmt.Errorf("fetching s3://%s/%s: %w", bucket, key, err)
	}
	log.Debugf("s3 fetched: bucket=%s key=%s path=%s", bucket, key, entry.Path)
	return entry.Path, nil
}
