// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package fetch resolves s3:// sources to local files so they can be
// validated and streamed like any other path. Objects are downloaded into the
// csvfilter cache, keyed by bucket, key and ETag, and reused while unchanged.
package fetch
