// Package filters applies before/after interceptors to HTTP requests, scoped by
// controller, action or URI.
//
// Filter definitions live on beans. A Class names the bean holding a set of
// filters; Chain resolves every class's bean and builds one middleware running
// the matching filters around the wrapped handler. Controller and action are
// read from the gorilla/mux route variables "controller" and "action".
package filters

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/moby/patternmatcher"
)

// Route variables holding the controller and action of a request.
const (
	ControllerVar = "controller"
	ActionVar     = "action"
)

// ErrNoInstance indicates a filters class whose bean could not be resolved.
var ErrNoInstance = errors.New("no filters instance")

// Scope selects the requests a filter applies to. Patterns support * within a
// path segment and ** across segments, and must match the whole value.
// When URI is set it is matched against the request path and Controller and
// Action are ignored; otherwise empty Controller and Action patterns match any
// value. Invert applies the filter to every request the scope does not match.
type Scope struct {
	Controller string
	Action     string
	URI        string
	Invert     bool
}

// Config is a single named filter.
type Config struct {
	Name  string
	Scope Scope

	// Before runs ahead of the handler. Returning false ends the request:
	// later filters and the handler do not run.
	Before func(w http.ResponseWriter, r *http.Request) bool

	// After runs once the handler returns.
	After func(w http.ResponseWriter, r *http.Request)

	// AfterView runs last, even when a later filter halted the request. err is
	// non-nil when the handler or a filter panicked.
	AfterView func(r *http.Request, err error)
}

// Definition is implemented by beans that declare filters.
type Definition interface {
	Filters() []Config
}

// BeanSource resolves beans by name.
type BeanSource interface {
	Bean(name string) (any, error)
}

// Class describes a set of filters held by a bean.
type Class interface {
	// Name is the short name of the class.
	Name() string

	// BeanName is the name of the bean holding the filters instance.
	BeanName() string

	// Configs returns the filters declared by instance.
	Configs(instance any) []Config
}

type class struct {
	name     string
	beanName string
}

// NewClass returns the Class for the bean called beanName. Its Name is
// beanName without a trailing "Filters".
func NewClass(beanName string) Class {
	name := strings.TrimSuffix(beanName, "Filters")
	if name == "" {
		name = beanName
	}
	return &class{name: name, beanName: beanName}
}

func (c *class) Name() string     { return c.name }
func (c *class) BeanName() string { return c.beanName }

// Configs returns instance's filters when it implements Definition.
func (c *class) Configs(instance any) []Config {
	def, ok := instance.(Definition)
	if !ok {
		return nil
	}
	return def.Filters()
}

// Chain builds a middleware running the filters of every class, in class order
// and then declaration order. After and AfterView callbacks run in reverse.
func Chain(beans BeanSource, classes ...Class) (func(http.Handler) http.Handler, error) {
	var configs []Config
	for _, c := range classes {
		instance, err := beans.Bean(c.BeanName())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrNoInstance, c.Name(), err)
		}
		for _, cfg := range c.Configs(instance) {
			if err := validate(cfg.Scope); err != nil {
				return nil, fmt.Errorf("filter %s.%s: %w", c.Name(), cfg.Name, err)
			}
			configs = append(configs, cfg)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			run(configs, next, w, r)
		})
	}, nil
}

// run executes the matching filters around next for one request.
func run(configs []Config, next http.Handler, w http.ResponseWriter, r *http.Request) {
	var active []Config
	for _, cfg := range configs {
		if cfg.Scope.matches(r) {
			active = append(active, cfg)
		}
	}

	var entered []Config
	defer func() {
		var err error
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			emitFailed(r, err)
		}
		for i := len(entered) - 1; i >= 0; i-- {
			if entered[i].AfterView != nil {
				entered[i].AfterView(r, err)
			}
		}
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}()

	for _, cfg := range active {
		if cfg.Before != nil && !cfg.Before(w, r) {
			emitHalted(r, cfg.Name)
			return
		}
		entered = append(entered, cfg)
	}

	next.ServeHTTP(w, r)

	for i := len(entered) - 1; i >= 0; i-- {
		if entered[i].After != nil {
			entered[i].After(w, r)
		}
	}
}

// matches reports whether the filter applies to r.
func (s Scope) matches(r *http.Request) bool {
	var ok bool
	if s.URI != "" {
		ok = match(r.URL.Path, s.URI)
	} else {
		vars := mux.Vars(r)
		ok = match(vars[ControllerVar], s.Controller) && match(vars[ActionVar], s.Action)
	}
	return ok != s.Invert
}

// match reports whether value matches pattern as a whole. * matches within one
// path segment and ** across segments, so "/book/*" matches "/book/list" but
// not "/book/list/7", and "/book" does not match "/book/list". An empty pattern
// matches everything.
func match(value, pattern string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	pm, err := patternmatcher.New([]string{strings.TrimPrefix(pattern, "/")})
	if err != nil {
		return false
	}
	ok, _, err := pm.MatchesUsingParentResults(strings.TrimPrefix(value, "/"), patternmatcher.MatchInfo{})
	return err == nil && ok
}

// validate rejects scopes whose patterns cannot be compiled.
func validate(s Scope) error {
	for _, p := range []string{s.Controller, s.Action, s.URI} {
		if p == "" {
			continue
		}
		if _, err := patternmatcher.New([]string{strings.TrimPrefix(p, "/")}); err != nil {
			return fmt.Errorf("scope pattern %q: %w", p, err)
		}
	}
	return nil
}
