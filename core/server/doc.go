// Package server holds the HTTP server configuration.
//
// The start command serves the mapcycle API with these settings: the listen
// port, the API key every request must present and the timeout applied to syncs
// triggered over HTTP.
package server
