// Package httputil provides shared HTTP response utilities for handlers.
//
// Handlers should use these helpers instead of writing raw
// http.ResponseWriter calls so that every endpoint speaks the same
// {result, reason, errors} envelope the site frontend expects.
package httputil
