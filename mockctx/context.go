// Package mockctx provides an in-memory application context for tests: a
// named bean registry, mock resources, message resolution and event
// publication.
//
// Every Context is independent. Nothing is shared between instances.
package mockctx

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"sync"
	"time"
)

// Sentinel errors for programmatic error handling.
var (
	// ErrNoSuchBean indicates no bean is registered under the requested name.
	ErrNoSuchBean = errors.New("no such bean")

	// ErrBeanNotOfRequiredType indicates a bean exists but has the wrong type.
	ErrBeanNotOfRequiredType = errors.New("bean not of required type")

	// ErrUnsupported indicates an operation the mock context does not implement.
	ErrUnsupported = errors.New("not supported by mock context")
)

// MessageSourceBean is the bean name Message resolves through.
const MessageSourceBean = "messageSource"

// Context is a mock application context.
type Context struct {
	mu        sync.RWMutex
	beans     map[string]any
	names     []string // registration order
	resources []*Resource

	fsys    fs.FS
	startup time.Time
}

// Option configures a Context.
type Option func(*Context)

// WithFS sets the filesystem backing resources registered by location only and
// resources that match no registration. Defaults to the working directory.
func WithFS(fsys fs.FS) Option {
	return func(c *Context) {
		c.fsys = fsys
	}
}

// WithStartupDate overrides the startup time, which defaults to time.Now().
func WithStartupDate(t time.Time) Option {
	return func(c *Context) {
		c.startup = t
	}
}

// New creates an empty Context.
func New(opts ...Option) *Context {
	c := &Context{
		beans:   make(map[string]any),
		fsys:    os.DirFS("."),
		startup: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterBean registers v under name, replacing any previous bean of that
// name in place. Returns the context for chaining.
func (c *Context) RegisterBean(name string, v any) *Context {
	c.mu.Lock()
	if _, ok := c.beans[name]; !ok {
		c.names = append(c.names, name)
	}
	c.beans[name] = v
	c.mu.Unlock()

	emitBeanRegistered(name, v)
	return c
}

// Bean returns the bean registered under name.
func (c *Context) Bean(name string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.beans[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchBean, name)
	}
	return v, nil
}

// BeanOfType returns the bean registered under name as a T.
func BeanOfType[T any](c *Context, name string) (T, error) {
	var zero T
	v, err := c.Bean(name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: bean %s is %T, not %s", ErrBeanNotOfRequiredType, name, v, reflect.TypeFor[T]())
	}
	return t, nil
}

// Type returns the dynamic type of the bean registered under name.
func (c *Context) Type(name string) (reflect.Type, error) {
	v, err := c.Bean(name)
	if err != nil {
		return nil, err
	}
	return reflect.TypeOf(v), nil
}

// ContainsBean reports whether a bean is registered under name.
func (c *Context) ContainsBean(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.beans[name]
	return ok
}

// BeanDefinitionCount returns the number of registered beans.
func (c *Context) BeanDefinitionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// BeanDefinitionNames returns the bean names in registration order.
func (c *Context) BeanDefinitionNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.names...)
}

// BeanNamesForType returns, in registration order, the names of the beans
// assignable to T.
func BeanNamesForType[T any](c *Context) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var names []string
	for _, name := range c.names {
		if _, ok := c.beans[name].(T); ok {
			names = append(names, name)
		}
	}
	return names
}

// BeansOfType returns the beans assignable to T keyed by name.
func BeansOfType[T any](c *Context) map[string]T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	beans := make(map[string]T)
	for _, name := range c.names {
		if t, ok := c.beans[name].(T); ok {
			beans[name] = t
		}
	}
	return beans
}

// StartupDate returns the time the context was created.
func (c *Context) StartupDate() time.Time {
	return c.startup
}

// Parent is not supported.
func (c *Context) Parent() (*Context, error) {
	return nil, fmt.Errorf("%w: parent", ErrUnsupported)
}

// DisplayName is not supported.
func (c *Context) DisplayName() (string, error) {
	return "", fmt.Errorf("%w: display name", ErrUnsupported)
}
