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

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/golang/glog"

	"dirpx.dev/rpc2/apis"
	"dirpx.dev/rpc2/params"
)

var (
	// ErrUnknownVerb is reported for verbs outside create, read, update
	// and delete when the policy is apis.UnknownVerbReject.
	ErrUnknownVerb = errors.New("rpc2(dispatch): unknown verb")
	// ErrVerbIgnored is returned by Do for unknown verbs under
	// apis.UnknownVerbIgnore. Dispatch reports nothing in that case.
	ErrVerbIgnored = errors.New("rpc2(dispatch): verb ignored")
	// ErrOperationNotConfigured is reported for a known verb with no method.
	ErrOperationNotConfigured = errors.New("rpc2(dispatch): operation not configured")
	// ErrNoTransport is reported when the dispatcher has no transport.
	ErrNoTransport = errors.New("rpc2(dispatch): no transport")
)

// Callbacks receive the outcome of Dispatch. Either may be nil.
type Callbacks struct {
	Success func(result any)
	Error   func(err error)
}

func (c Callbacks) succeed(res any) {
	if c.Success != nil {
		c.Success(res)
	}
}

func (c Callbacks) fail(err error) {
	if c.Error != nil {
		c.Error(err)
	}
}

// Dispatcher routes a verb to the configured remote method, builds its
// payload and hands the request to the transport. It holds no mutable
// state and is safe for concurrent use.
type Dispatcher struct {
	tr     apis.Transport
	tpl    apis.Templater
	policy apis.UnknownVerbPolicy
}

// New creates a Dispatcher. A nil tpl uses params.New(nil).
func New(tr apis.Transport, tpl apis.Templater, cfg apis.Config) *Dispatcher {
	if tpl == nil {
		tpl = params.New(nil)
	}
	return &Dispatcher{tr: tr, tpl: tpl, policy: cfg.UnknownVerb}
}

// Request builds the request verb would send for record without sending it.
func (d *Dispatcher) Request(opts apis.Options, verb apis.Verb, record any) (apis.Request, error) {
	if !verb.Known() {
		if d.policy == apis.UnknownVerbReject {
			return apis.Request{}, fmt.Errorf("%w: %q", ErrUnknownVerb, string(verb))
		}
		return apis.Request{}, fmt.Errorf("%w: %q", ErrVerbIgnored, string(verb))
	}
	op, ok := opts.Operation(verb)
	if !ok || op.Method == "" {
		return apis.Request{}, fmt.Errorf("%w: %s", ErrOperationNotConfigured, verb)
	}
	return apis.Request{
		Method:  op.Method,
		Params:  d.tpl.Build(op.Params, record),
		URL:     opts.URL,
		Headers: maps.Clone(opts.Headers),
	}, nil
}

// Do performs verb synchronously and returns the transport outcome as is.
func (d *Dispatcher) Do(ctx context.Context, opts apis.Options, verb apis.Verb, record any) (any, error) {
	req, err := d.Request(opts, verb, record)
	if err != nil {
		d.refused(verb, record, err)
		return nil, err
	}
	return d.call(ctx, req, record)
}

// Dispatch performs verb asynchronously. The payload is built before
// Dispatch returns, so later changes to record are not seen. The outcome
// goes to cb from another goroutine and the returned channel is closed
// once the callback has run. An ignored verb closes the channel at once
// without calling cb.
func (d *Dispatcher) Dispatch(ctx context.Context, opts apis.Options, verb apis.Verb, record any, cb Callbacks) <-chan struct{} {
	done := make(chan struct{})
	req, err := d.Request(opts, verb, record)
	if err != nil {
		d.refused(verb, record, err)
		if errors.Is(err, ErrVerbIgnored) {
			close(done)
			return done
		}
		go func() {
			defer close(done)
			cb.fail(err)
		}()
		return done
	}

	go func() {
		defer close(done)
		res, err := d.call(ctx, req, record)
		if err != nil {
			cb.fail(err)
			return
		}
		cb.succeed(res)
	}()
	return done
}

func (d *Dispatcher) call(ctx context.Context, req apis.Request, record any) (any, error) {
	if d.tr == nil {
		return nil, ErrNoTransport
	}
	if glog.V(1) {
		glog.Infof("[dispatch]%s -> %s url=%q\n", describe(record), req.Method, req.URL)
	}
	res, err := d.tr.Call(ctx, req)
	if err != nil {
		glog.Warningf("[dispatch]%s -> %s failed: %v\n", describe(record), req.Method, err)
	}
	return res, err
}

func (d *Dispatcher) refused(verb apis.Verb, record any, err error) {
	if errors.Is(err, ErrVerbIgnored) {
		glog.Infof("[dispatch]ignored verb %q for %s\n", string(verb), describe(record))
		return
	}
	if glog.V(1) {
		glog.Infof("[dispatch]%s: %v\n", describe(record), err)
	}
}

// describe names record for logs.
func describe(record any) string {
	if id, ok := record.(apis.Identifier); ok {
		return id.EntityName() + "#" + id.EntityID()
	}
	return fmt.Sprintf("%T", record)
}
