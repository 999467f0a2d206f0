// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package cerrs_test

import (
	"errors"
	"testing"

	"github.com/playbymail/lslopt/cerrs"
)

func TestErrorImplementsErrorInterfaceByValue(t *testing.T) {
	var err error = cerrs.ErrNotAFile
	if err.Error() != "not a file" {
		t.Errorf("got %q, want %q", err.Error(), "not a file")
	}
}

func TestConstantErrorsAreComparableWithErrorsIs(t *testing.T) {
	wrapped := errors.Join(cerrs.ErrInvalidPath, errors.New("detail"))
	if !errors.Is(wrapped, cerrs.ErrInvalidPath) {
		t.Errorf("expected errors.Is to find the joined constant error")
	}
	if errors.Is(wrapped, cerrs.ErrNotDirectory) {
		t.Errorf("expected errors.Is to reject an unrelated constant error")
	}
}
