package session

import (
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Resolver locates the ssh client executable to run. Resolution happens
// exactly once per session, before the first connection attempt.
type Resolver interface {
	Resolve() (string, error)
}

// PathResolver resolves the client binary the way a shell would: a bare
// name is searched on PATH, anything containing a path separator is
// checked directly.
type PathResolver struct {
	name string
	log  *zap.Logger
}

func NewPathResolver(name string, log *zap.Logger) *PathResolver {
	return &PathResolver{
		name: name,
		log:  log.Named("resolver"),
	}
}

var _ Resolver = (*PathResolver)(nil)

func (r *PathResolver) Resolve() (string, error) {
	path, err := exec.LookPath(r.name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrClientNotFound, r.name)
	}

	r.log.Debug("ssh executable found", zap.String("path", path))

	return path, nil
}
