/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package transport

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"dirpx.dev/rpc2/apis"
)

// Func adapts a plain function to apis.Transport.
type Func func(ctx context.Context, req apis.Request) (any, error)

// Call implements apis.Transport.
func (f Func) Call(ctx context.Context, req apis.Request) (any, error) {
	return f(ctx, req)
}

// Call is one request seen by a Recorder.
type Call struct {
	// ID is unique per recorded call.
	ID string
	// Request is the request as received.
	Request apis.Request
}

// Recorder is an in-memory apis.Transport. It records every request and
// answers with the canned result or error registered for the method;
// unknown methods succeed with a nil result.
type Recorder struct {
	mu      sync.Mutex
	calls   []Call
	results map[string]any
	errs    map[string]error
	onCall  func(Call)
}

// Ensure Recorder implements apis.Transport.
var _ apis.Transport = (*Recorder)(nil)

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		results: make(map[string]any),
		errs:    make(map[string]error),
	}
}

// Respond makes method succeed with result.
func (r *Recorder) Respond(method string, result any) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.errs, method)
	r.results[method] = result
	return r
}

// Fail makes method fail with err.
func (r *Recorder) Fail(method string, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.results, method)
	r.errs[method] = err
	return r
}

// OnCall installs a hook run for each call after it was recorded.
func (r *Recorder) OnCall(fn func(Call)) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCall = fn
	return r
}

// Call records req and returns the canned outcome for req.Method.
// A cancelled ctx fails with ctx.Err() without recording.
func (r *Recorder) Call(ctx context.Context, req apis.Request) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := Call{ID: uuid.NewString(), Request: req}

	r.mu.Lock()
	r.calls = append(r.calls, c)
	res, err := r.results[req.Method], r.errs[req.Method]
	hook := r.onCall
	r.mu.Unlock()

	if hook != nil {
		hook(c)
	}
	return res, err
}

// Calls returns a snapshot of recorded calls in arrival order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset forgets recorded calls. Canned outcomes are kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
