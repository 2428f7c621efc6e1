// Package api handles incoming HTTP requests, request decoding and response
// formatting. It adapts the flashcard service to the JSON endpoints used by
// the browser client and renders the server-side list view.
package api
