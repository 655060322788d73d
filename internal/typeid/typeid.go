// Package typeid issues the prefixed, time-sortable identifiers used for
// scenes, stored snapshot versions and applied operations.
package typeid

import (
	"errors"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// ErrInvalid wraps every Validate failure.
var ErrInvalid = errors.New("invalid id")

const (
	PrefixScene    = "scene"
	PrefixSnapshot = "snap"
	PrefixOp       = "op"
)

// New returns a fresh id such as scene_01h455vb4pex5vsknk084sn02q.
func New(prefix string) string {
	return typeid.MustGenerate(prefix).String()
}

func NewSceneID() string    { return New(PrefixScene) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewOpID() string       { return New(PrefixOp) }

// Validate reports whether id parses and names an entity of kind prefix.
func Validate(id, prefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalid, id, err)
	}
	if kind := parsed.Prefix(); kind != prefix {
		return fmt.Errorf("%w %q: a %s id where a %s id is required", ErrInvalid, id, kind, prefix)
	}
	return nil
}
