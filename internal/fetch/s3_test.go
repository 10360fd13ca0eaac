// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package fetch

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/csvfilter/internal/source"
	"github.com/tfctl/csvfilter/internal/stream"
)

// fakeS3 serves objects from memory, two keys per list page.
type fakeS3 struct {
	objects map[string]string
	gets    int
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3v2.ListObjectsV2Input, _ ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, awsv2.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	// Deliberately unsorted within the page order the fake produces.
	sortDesc(keys)

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := min(start+2, len(keys))

	out := &s3v2.ListObjectsV2Output{IsTruncated: awsv2.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: awsv2.String(k), ETag: awsv2.String(etag(f.objects[k]))})
	}
	if end < len(keys) {
		out.NextContinuationToken = awsv2.String(keys[end])
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	body, ok := f.objects[awsv2.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	f.gets++
	return &s3v2.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(body)),
		ETag: awsv2.String(etag(body)),
	}, nil
}

func etag(body string) string {
	return `"` + body[:min(4, len(body))] + `"`
}

func sortDesc(keys []string) {
	for i := range keys {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] > keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
}

func newFake() *fakeS3 {
	return &fakeS3{objects: map[string]string{
		"data/a.csv":     "key,val\n1,x\n",
		"data/b.csv":     "key,val\n2,y\n",
		"data/c.csv":     "key,val\n3,z\n",
		"data/notes.txt": "hello\n",
		"data/sub/d.csv": "key,val\n4,w\n",
		"other/a.csv":    "id,val\n",
	}}
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		in      string
		bucket  string
		key     string
		wantErr bool
	}{
		{in: "s3://bucket/data/a.csv", bucket: "bucket", key: "data/a.csv"},
		{in: "s3://bucket/*.csv", bucket: "bucket", key: "*.csv"},
		{in: "s3://bucket", wantErr: true},
		{in: "s3:///key.csv", wantErr: true},
		{in: "/local/file.csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			bucket, key, err := ParseURI(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestIsS3(t *testing.T) {
	assert.True(t, IsS3("s3://b/k.csv"))
	assert.False(t, IsS3("b/k.csv"))
	assert.False(t, IsS3("S3://b/k.csv"))
}

func newExpander(t *testing.T, api API) *S3Expander {
	t.Helper()
	t.Setenv("CSVFILTER_CACHE_DIR", t.TempDir())
	t.Setenv("CSVFILTER_CACHE", "")

	x, err := NewS3Expander(context.Background(), api)
	require.NoError(t, err)
	t.Cleanup(func() { x.Close() })
	return x
}

func readAll(t *testing.T, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		b, err := os.ReadFile(p)
		require.NoError(t, err)
		out[i] = string(b)
	}
	return out
}

func TestExpand_Glob(t *testing.T) {
	api := newFake()
	x := newExpander(t, api)

	paths, err := x.Expand("s3://bucket/data/*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"key,val\n1,x\n", "key,val\n2,y\n", "key,val\n3,z\n"}, readAll(t, paths))
	assert.Equal(t, 3, api.gets)

	// Unchanged objects come from the cache.
	again, err := x.Expand("s3://bucket/data/*.csv")
	require.NoError(t, err)
	assert.Equal(t, paths, again)
	assert.Equal(t, 3, api.gets)
}

func TestExpand_NoMatches(t *testing.T) {
	x := newExpander(t, newFake())

	paths, err := x.Expand("s3://bucket/data/*.tsv")
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestExpand_Literal(t *testing.T) {
	x := newExpander(t, newFake())

	paths, err := x.Expand("s3://bucket/other/a.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"id,val\n"}, readAll(t, paths))

	_, err = x.Expand("s3://bucket/missing.csv")
	assert.ErrorContains(t, err, "NoSuchKey")
}

func TestExpand_BadPattern(t *testing.T) {
	x := newExpander(t, newFake())

	_, err := x.Expand("s3://bucket/data/[.csv")
	assert.Error(t, err)
}

func TestExpand_CacheDisabledUsesTempDir(t *testing.T) {
	t.Setenv("CSVFILTER_CACHE", "0")

	x, err := NewS3Expander(context.Background(), newFake())
	require.NoError(t, err)
	require.True(t, x.tmp)

	paths, err := x.Expand("s3://bucket/data/a.csv")
	require.NoError(t, err)
	assert.FileExists(t, paths[0])

	require.NoError(t, x.Close())
	assert.NoFileExists(t, paths[0])
	assert.NoError(t, x.Close())
}

func TestExpand_FeedsChainStream(t *testing.T) {
	x := newExpander(t, newFake())
	d := source.New("s3://bucket/data/*.csv")

	report, err := source.Validate(d, x.Expand)
	require.NoError(t, err)
	assert.True(t, report.OK())

	ls, err := stream.Open(d, x.Expand)
	require.NoError(t, err)
	defer ls.Close()

	var lines []string
	for {
		line, err := ls.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
	assert.Equal(t, []string{"key,val", "1,x", "2,y", "3,z"}, lines)
}
