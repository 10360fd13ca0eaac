// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"os"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/csvfilter/internal/log"
)

// options holds optional overrides for AWS config loading.
type options struct {
	profile  string
	region   string
	endpoint string
	retryer  func() awsv2.Retryer
}

// Option customizes how AWS config is loaded.
// Default behavior (no options) inherits the shell environment and shared
// config chain (AWS_PROFILE, ~/.aws/config, ~/.aws/credentials, IMDS, etc.).
type Option func(*options)

// Session is a loaded config plus the client settings derived from options.
type Session struct {
	Config   awsv2.Config
	Endpoint string
}

// Load resolves AWS config. Empty option values are ignored so flags can be
// passed straight through. The S3 endpoint falls back to
// CSVFILTER_S3_ENDPOINT for S3-compatible stores.
func Load(ctx context.Context, opts ...Option) (Session, error) {
	o := options{endpoint: os.Getenv("CSVFILTER_S3_ENDPOINT")}
	for _, opt := range opts {
		opt(&o)
	}
	log.Debugf("aws opts: profile=%s region=%s endpoint=%s", o.profile, o.region, o.endpoint)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("aws config load err: err=%v", err)
		return Session{}, err
	}
	return Session{Config: cfg, Endpoint: o.endpoint}, nil
}

// S3 builds an S3 client for the session. A custom endpoint implies path
// style addressing, which is what MinIO and friends expect.
func (s Session) S3(optFns ...func(*s3v2.Options)) *s3v2.Client {
	if s.Endpoint != "" {
		endpoint := s.Endpoint
		optFns = append([]func(*s3v2.Options){func(o *s3v2.Options) {
			o.BaseEndpoint = awsv2.String(endpoint)
			o.UsePathStyle = true
		}}, optFns...)
	}
	client := s3v2.NewFromConfig(s.Config, optFns...)
	log.Debugf("s3 client created: region=%s", s.Config.Region)
	return client
}

// WithProfile sets the shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) {
		if profile != "" {
			o.profile = profile
		}
	}
}

// WithRegion sets the region override.
func WithRegion(region string) Option {
	return func(o *options) {
		if region != "" {
			o.region = region
		}
	}
}

// WithEndpoint points the S3 client at a non-AWS endpoint.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// WithRetryer injects a custom retryer; if not set, SDK defaults are used.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}
