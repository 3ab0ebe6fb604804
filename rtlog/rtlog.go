// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package rtlog builds the runtime's trace logger: a thin wrapper over
// go-kratos/kratos's log.Helper, defaulting to an error-filtered stdout
// logger when the caller supplies none.
package rtlog

import (
	"os"

	"github.com/go-kratos/kratos/v2/log"
)

// New returns a *log.Helper wrapping logger, or a default error-filtered
// stdout logger if logger is nil.
func New(logger log.Logger) *log.Helper {
	if logger == nil {
		return log.NewHelper(log.NewFilter(log.NewStdLogger(os.Stdout),
			log.FilterLevel(log.LevelError)))
	}
	return log.NewHelper(logger)
}
