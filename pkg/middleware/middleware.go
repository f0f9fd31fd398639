// Package middleware provides the HTTP middleware shared by every module:
// panic recovery, request correlation IDs, CORS, and access logging.
package middleware

import "net/http"

// Stack is an ordered list of middleware. The first entry runs outermost.
type Stack []func(http.Handler) http.Handler

// Use appends middleware to the end of the stack.
func (s *Stack) Use(mw ...func(http.Handler) http.Handler) {
	*s = append(*s, mw...)
}

// Apply wraps handler with the stack. A nil or empty stack returns handler unchanged.
func (s Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s) - 1; i >= 0; i-- {
		handler = s[i](handler)
	}
	return handler
}
