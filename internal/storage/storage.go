// Package storage keeps files attached to condition activities. The
// workflow only sees the Store interface; the local and GCS backends are
// selected from configuration.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// Store uploads attachment files and deletes them by the URL Upload returned.
type Store interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	// Delete reports false when nothing was stored at url.
	Delete(ctx context.Context, url string) (bool, error)
}

// Policy decides what happens to an activity when its attachment upload fails.
type Policy string

const (
	// PolicyFailOpen records the activity without a file.
	PolicyFailOpen Policy = "fail_open"
	// PolicyFailClosed rejects the activity before anything is written.
	PolicyFailClosed Policy = "fail_closed"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyFailOpen, PolicyFailClosed:
		return p, nil
	case "":
		return PolicyFailOpen, nil
	default:
		return "", goerr.New("unknown attachment policy", goerr.V("policy", s))
	}
}

// objectKey builds a collision-free key that keeps the caller's file name
// readable: attachments/<uuid>/<base name>.
func objectKey(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" || base == "" {
		base = "file"
	}
	return fmt.Sprintf("attachments/%s/%s", uuid.New().String(), base)
}
