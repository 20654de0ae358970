package state

import (
	"strings"

	rerrors "github.com/danrasband/reconcile/pkg/errors"
)

// Root is the path of the graph's implicit root node.
const Root = "/"

// Path is an immutable, absolute, slash-delimited node identifier such as
// "/extract/likes". Paths are the identity of a node within a graph: two
// nodes sharing a path cannot coexist in one graph.
type Path string

// NewPath validates and returns a Path. A Path must start with "/" and must
// not contain a trailing slash, except for the root itself.
func NewPath(raw string) (Path, error) {
	if raw == "" || raw[0] != '/' {
		return "", rerrors.NewPreconditionViolation("NewPath", "path must be absolute and start with \"/\": "+raw)
	}
	if raw != Root && strings.HasSuffix(raw, "/") {
		return "", rerrors.NewPreconditionViolation("NewPath", "path must not end with \"/\": "+raw)
	}
	return Path(raw), nil
}

// String returns the path's textual form.
func (p Path) String() string {
	return string(p)
}

// Segments splits the path into its slash-delimited components, ignoring
// the leading slash. The root path yields an empty slice.
func (p Path) Segments() []string {
	trimmed := strings.TrimPrefix(string(p), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// IsRoot reports whether the path refers to the graph root.
func (p Path) IsRoot() bool {
	return p == Root
}
