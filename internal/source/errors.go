// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import "fmt"

// OpenError reports a source file or pattern that could not be opened or
// expanded. It is fatal to the invocation that hit it.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("cannot open source %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
