// Copyright 2020 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package testutil

import (
	"testing"

	"github.com/pkg/errors"
)

// FatalIfErr fails the test with a fatal error if err is not nil.
func FatalIfErr(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		tb.Fatal(err)
	}
}

// ExpectCause fails the test unless the cause of err is want.
func ExpectCause(tb testing.TB, err, want error) {
	tb.Helper()
	if errors.Cause(err) != want {
		tb.Errorf("error cause: got %v, want %v", err, want)
	}
}
