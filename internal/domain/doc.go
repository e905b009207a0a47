// Package domain holds the loading plan request, its validation, display
// helpers and the error values shared by the renderer and the HTTP layer.
// It has no transport or PDF library dependencies.
package domain
