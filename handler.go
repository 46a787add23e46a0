// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package rapidhttp

import (
	"github.com/gogama/rapidhttp/request"
)

var emptyHandlers = HandlerGroup{}

// A HandlerGroup holds one handler chain per event. Install it in a
// Session to observe or extend calls. The zero value is an empty group.
//
// A HandlerGroup must not be modified while a Session that uses it has
// calls in flight.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack appends h to the chain for evt.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("rapidhttp: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic("rapidhttp: invalid event")
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

// Len returns the number of handlers in the chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	i := int(evt)
	if i < 0 || i >= len(g.handlers) {
		return 0
	}
	return len(g.handlers[i])
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	i := int(evt)
	if i < len(g.handlers) {
		for _, h := range g.handlers[i] {
			h.Handle(evt, e)
		}
	}
}

// A Handler handles an event during a call. Handlers run synchronously
// on the calling goroutine, in the order they were pushed.
//
// Handlers may record data with Execution.SetValue but must not modify
// the execution's exported fields or its plan.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
