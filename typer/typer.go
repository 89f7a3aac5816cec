// Package typer provides a tiny interface for tagging message types so that
// self-registering handlers can be matched to the messages they accept without
// the registry knowing their concrete types.
package typer

type T interface {
	// Type returns a short identifier string that a registry can use to route a
	// message to the handler that registered under the same identifier.
	Type() string
}
