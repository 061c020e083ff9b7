package mockctx

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/moby/patternmatcher"
)

// Resource is a named piece of content: either registered with fixed content
// or read from the context's filesystem.
type Resource struct {
	location string
	content  []byte
	fsys     fs.FS // nil for content resources
}

// Location returns the location the resource was registered or requested with.
func (r *Resource) Location() string {
	return r.location
}

// Exists reports whether the resource can be opened.
func (r *Resource) Exists() bool {
	if r.fsys == nil {
		return true
	}
	_, err := fs.Stat(r.fsys, fsPath(r.location))
	return err == nil
}

// Open returns a reader over the resource content.
func (r *Resource) Open() (io.ReadCloser, error) {
	if r.fsys == nil {
		return io.NopCloser(bytes.NewReader(r.content)), nil
	}
	return r.fsys.Open(fsPath(r.location))
}

// RegisterResource registers a resource read from the context's filesystem.
// Locations use "/" as separator, e.g. /WEB-INF/i18n/messages.properties.
func (c *Context) RegisterResource(location string) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, &Resource{location: location, fsys: c.fsys})
	return c
}

// RegisterResourceContent registers a resource with fixed content.
func (c *Context) RegisterResourceContent(location, content string) *Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, &Resource{location: location, content: []byte(content)})
	return c
}

// Resource returns the first registered resource whose location, read as a
// pattern, matches location. When none matches, it returns a resource for
// location on the context's filesystem, which may not exist.
func (c *Context) Resource(location string) *Resource {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.resources {
		if ok, err := matches(location, r.location); err == nil && ok {
			return r
		}
	}
	return &Resource{location: location, fsys: c.fsys}
}

// Resources returns, in registration order, the registered resources whose
// location matches pattern. Patterns support * and **; a leading "/" is
// ignored. The classpath: and file: prefixes are not supported.
func (c *Context) Resources(pattern string) ([]*Resource, error) {
	if strings.HasPrefix(pattern, "classpath:") || strings.HasPrefix(pattern, "file:") {
		return nil, fmt.Errorf("%w: location pattern %q", ErrUnsupported, pattern)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*Resource
	for _, r := range c.resources {
		ok, err := matches(r.location, pattern)
		if err != nil {
			return nil, fmt.Errorf("resource pattern %q: %w", pattern, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// matches reports whether location falls under pattern, with dockerignore
// semantics: a pattern naming a directory matches everything below it.
func matches(location, pattern string) (bool, error) {
	return patternmatcher.MatchesOrParentMatches(fsPath(location), []string{fsPath(pattern)})
}

func fsPath(location string) string {
	return strings.TrimPrefix(location, "/")
}
