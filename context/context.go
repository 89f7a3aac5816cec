// Package context is a set of shorter names for the common types and functions
// of the stdlib context package.
package context

import (
	"context"
	"time"
)

type (
	// T is a context.Context.
	T = context.Context
	// F is a context.CancelFunc.
	F = context.CancelFunc
)

// Canceled is the error returned from contexts that have been canceled.
var Canceled = context.Canceled

// Bg returns a context.Background.
func Bg() T { return context.Background() }

// TODO returns a context.TODO.
func TODO() T { return context.TODO() }

// Cancel returns a context with a cancel function.
func Cancel(c T) (T, F) { return context.WithCancel(c) }

// Timeout returns a context with a timeout and a cancel function.
func Timeout(c T, d time.Duration) (T, F) { return context.WithTimeout(c, d) }

// Value returns a context with a value attached.
func Value(c T, k, v any) T { return context.WithValue(c, k, v) }
