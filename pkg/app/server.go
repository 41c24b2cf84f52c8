package app

// pkg/app/server.go — bridges Application → internal/server.
// The only job of this file is to build the HTTP handler (via kernel.go)
// and pass it to the internal server that actually binds the port.

import "github.com/cafahardware/pos/internal/server"

// startServer boots the infrastructure, builds the HTTP handler from the
// application config, and hands it to internal/server.Start for the actual
// listen+serve lifecycle. Boot must come first: route registration and
// auto-migration both need a live database.
func startServer(a *Application) error {
	if err := server.Boot(); err != nil {
		return err
	}
	handler := buildHandler(a)
	return server.Start(handler)
}
