package directory

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/daps/dapsd/pkg/addressing"
	"github.com/daps/dapsd/pkg/docpath"
	"github.com/daps/dapsd/pkg/registry"
)

// Outcome taxonomy shared with the transport adapter. The adapter maps these
// onto status codes; the filesystem layer folds a missing file into the same
// class as ErrNotFound and any other I/O failure into an internal error.
var (
	// ErrBadAddressing indicates the request host carried no usable language.
	ErrBadAddressing = errors.New("bad addressing")
	// ErrNotFound indicates an unknown language or an unknown project.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the requested path escapes the project sandbox.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRegistration indicates a registration with missing fields.
	ErrInvalidRegistration = errors.New("invalid registration")
)

// Service combines the project registry with path resolution. It is the only
// entry point the HTTP adapter calls and the only component that mutates the
// registry.
type Service struct {
	registry *registry.Registry
	suffix   string
	tracer   trace.Tracer
}

// New builds a Service around reg, using hostSuffix to extract languages
// from request hosts. An empty hostSuffix falls back to addressing.Suffix.
func New(reg *registry.Registry, hostSuffix string) *Service {
	if hostSuffix == "" {
		hostSuffix = addressing.Suffix
	}
	return &Service{
		registry: reg,
		suffix:   hostSuffix,
		tracer:   otel.Tracer("dapsd/directory"),
	}
}

// RegisterProject validates and stores a project registration, overwriting
// any previous registration for the same (language, project). The directory
// is absolutized once here so later working-directory changes cannot move
// the sandbox. On validation failure the registry is left untouched.
func (s *Service) RegisterProject(ctx context.Context, language, name, dir string) (registry.Project, error) {
	_, span := s.tracer.Start(ctx, "directory.register")
	defer span.End()

	language = strings.ToLower(strings.TrimSpace(language))
	name = strings.TrimSpace(name)
	dir = strings.TrimSpace(dir)

	switch {
	case language == "":
		span.SetStatus(codes.Error, "empty language")
		return registry.Project{}, fmt.Errorf("%w: empty language", ErrInvalidRegistration)
	case name == "":
		span.SetStatus(codes.Error, "empty project name")
		return registry.Project{}, fmt.Errorf("%w: empty project name", ErrInvalidRegistration)
	case dir == "":
		span.SetStatus(codes.Error, "empty directory")
		return registry.Project{}, fmt.Errorf("%w: empty directory", ErrInvalidRegistration)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		span.SetStatus(codes.Error, "absolutize")
		return registry.Project{}, fmt.Errorf("absolutize directory: %w", err)
	}

	p := s.registry.Register(language, name, abs)
	span.SetAttributes(
		attribute.String("docs.language", p.Language),
		attribute.String("docs.project", p.Name),
	)
	return p, nil
}

// ResolveRequest maps (host, project, requested path) onto a filesystem path
// guaranteed to stay inside the project's registered directory. The caller
// performs the actual file open; a miss at that layer belongs to the same
// outcome class as ErrNotFound.
func (s *Service) ResolveRequest(ctx context.Context, host, project, requested string) (string, error) {
	_, span := s.tracer.Start(ctx, "directory.resolve", trace.WithAttributes(
		attribute.String("docs.host", host),
		attribute.String("docs.project", project),
	))
	defer span.End()

	language, err := addressing.Language(host, s.suffix)
	if err != nil {
		span.SetStatus(codes.Error, "bad addressing")
		return "", fmt.Errorf("%w: %v", ErrBadAddressing, err)
	}
	span.SetAttributes(attribute.String("docs.language", language))

	entry, ok := s.registry.Lookup(language, project)
	if !ok {
		span.SetStatus(codes.Error, "not found")
		// Unknown language and unknown project surface identically to the
		// client; keep them apart in the error text for diagnostics.
		if !s.registry.HasLanguage(language) {
			return "", fmt.Errorf("%w: language %q", ErrNotFound, language)
		}
		return "", fmt.Errorf("%w: project %q under language %q", ErrNotFound, project, language)
	}

	resolved, err := docpath.Resolve(entry.Directory, requested)
	if err != nil {
		span.SetStatus(codes.Error, "forbidden")
		return "", fmt.Errorf("%w: %q under %s/%s", ErrForbidden, requested, language, project)
	}
	return resolved, nil
}

// Projects returns a snapshot of all registered projects for diagnostics.
func (s *Service) Projects() []registry.Project {
	return s.registry.List()
}
