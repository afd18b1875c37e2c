package oerror

import (
	"errors"
	"os"
	"testing"
)

func TestNewKeepsCause(t *testing.T) {
	err := New("unable to read layout %q: %v", "oval.toml", os.ErrNotExist)
	if err.Error() != `unable to read layout "oval.toml": file does not exist` {
		t.Fatalf("unexpected message: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected the cause to be unwrapped")
	}
	if New("plain").Unwrap() != nil {
		t.Fatal("expected no cause without an error argument")
	}
}
