package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Project is a registered documentation tree: a language scope, a project
// name unique within that language, and the directory every request for the
// project is confined to. The directory is immutable for the lifetime of the
// entry; re-registration replaces the whole entry.
type Project struct {
	ID           string
	Language     string
	Name         string
	Directory    string
	RegisteredAt time.Time
}

// Registry offers a threadsafe in-memory index of registered projects keyed
// by language and then project name. It lives for the process lifetime;
// nothing is persisted.
type Registry struct {
	mu        sync.RWMutex
	languages map[string]map[string]Project
}

// New returns an empty registry ready for population from registration
// requests.
func New() *Registry {
	return &Registry{languages: map[string]map[string]Project{}}
}

// Register stores a project under (language, name), replacing any previous
// entry for that key in a single step, and returns the stored copy with its
// assigned ID and timestamp.
func (r *Registry) Register(language, name, directory string) Project {
	p := Project{
		ID:           uuid.NewString(),
		Language:     language,
		Name:         name,
		Directory:    directory,
		RegisteredAt: time.Now().UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	projects, ok := r.languages[language]
	if !ok {
		projects = map[string]Project{}
		r.languages[language] = projects
	}
	projects[name] = p
	return p
}

// Lookup retrieves a copy of the project registered under (language, name)
// and a boolean indicating its presence.
func (r *Registry) Lookup(language, name string) (Project, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.languages[language][name]
	return p, ok
}

// HasLanguage reports whether any project is registered under language.
func (r *Registry) HasLanguage(language string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.languages[language]) > 0
}

// List returns a snapshot of every registered project, ordered by language
// and then project name.
func (r *Registry) List() []Project {
	r.mu.RLock()
	out := make([]Project, 0, len(r.languages))
	for _, projects := range r.languages {
		for _, p := range projects {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Language != out[j].Language {
			return out[i].Language < out[j].Language
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Len returns the number of registered projects across all languages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, projects := range r.languages {
		n += len(projects)
	}
	return n
}
