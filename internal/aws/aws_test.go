// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package aws

import (
	"context"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want options
	}{
		{
			name: "none",
			want: options{},
		},
		{
			name: "all set",
			opts: []Option{WithProfile("dev"), WithRegion("eu-west-1"), WithEndpoint("http://localhost:9000")},
			want: options{profile: "dev", region: "eu-west-1", endpoint: "http://localhost:9000"},
		},
		{
			name: "empty values ignored",
			opts: []Option{WithRegion("us-east-1"), WithRegion(""), WithProfile("")},
			want: options{region: "us-east-1"},
		},
		{
			name: "later wins",
			opts: []Option{WithRegion("us-east-1"), WithRegion("eu-west-1")},
			want: options{region: "eu-west-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o options
			for _, opt := range tt.opts {
				opt(&o)
			}
			assert.Equal(t, tt.want, o)
		})
	}
}

func TestWithRetryer(t *testing.T) {
	var o options
	WithRetryer(func() awsv2.Retryer { return retry.NewStandard() })(&o)

	require.NotNil(t, o.retryer)
	assert.NotNil(t, o.retryer())
}

func TestLoad_Region(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	t.Setenv("CSVFILTER_S3_ENDPOINT", "")

	sess, err := Load(context.Background(), WithRegion("ap-northeast-1"))
	require.NoError(t, err)
	assert.Equal(t, "ap-northeast-1", sess.Config.Region)
	assert.Empty(t, sess.Endpoint)
	assert.NotNil(t, sess.S3())
}

func TestLoad_EndpointFromEnv(t *testing.T) {
	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	t.Setenv("CSVFILTER_S3_ENDPOINT", "http://localhost:9000")

	sess, err := Load(context.Background(), WithRegion("us-east-1"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", sess.Endpoint)

	client := sess.S3()
	assert.Equal(t, "http://localhost:9000", awsv2.ToString(client.Options().BaseEndpoint))
	assert.True(t, client.Options().UsePathStyle)

	sess, err = Load(context.Background(), WithRegion("us-east-1"), WithEndpoint("http://minio:9000"))
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", sess.Endpoint)
}
