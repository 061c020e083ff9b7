package filters

import (
	"net/http"

	"github.com/zoobzio/capitan"
)

// Signals for filter events.
var (
	SignalFilterHalted = capitan.NewSignal("filters.filter.halted", "Before filter ended a request")
	SignalFilterFailed = capitan.NewSignal("filters.filter.failed", "Request panicked inside a filter chain")
)

// Keys for typed event data.
var (
	KeyFilter = capitan.NewStringKey("filter")
	KeyPath   = capitan.NewStringKey("path")
	KeyError  = capitan.NewErrorKey("error")
)

func emitHalted(r *http.Request, filter string) {
	capitan.Emit(r.Context(), SignalFilterHalted,
		KeyFilter.Field(filter),
		KeyPath.Field(r.URL.Path),
	)
}

func emitFailed(r *http.Request, err error) {
	capitan.Error(r.Context(), SignalFilterFailed,
		KeyPath.Field(r.URL.Path),
		KeyError.Field(err),
	)
}
