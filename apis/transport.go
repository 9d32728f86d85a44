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

package apis

import "context"

// Request is one outbound call handed to a Transport.
type Request struct {
	// Method is the remote method name.
	Method string
	// Params is the built payload.
	Params Payload
	// URL is the record type's endpoint, passed through.
	URL string
	// Headers are the record type's headers, passed through.
	Headers map[string]string
}

// Transport performs the remote call. Cancellation, timeouts, encoding
// and retries are its own concern.
type Transport interface {
	Call(ctx context.Context, req Request) (result any, err error)
}
