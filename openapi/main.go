// Package openapi is the HTTP face of varly, a huma wrapped REST API for
// appending, fetching and administering the record log.
package openapi

import (
	"github.com/danielgtaylor/huma/v2"

	"varly.lol/servemux"
	"varly.lol/varly/interfaces"
)

// Operations holds the state the HTTP API methods work from. Every Register
// method on it is picked up by huma.AutoRegister.
type Operations struct {
	interfaces.Server
	path string
}

// New creates the huma API on the servemux and registers the Operations
// methods on it.
func New(s interfaces.Server, name, version, description, path string,
	sm *servemux.S) {
	a := NewHuma(sm, name, version, description)
	huma.AutoRegister(a, &Operations{Server: s, path: path})
}
