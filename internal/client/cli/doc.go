// Package cli provides the interactive ImageFeed command-line client.
//
// It wires configuration, the local token database, the HTTP and OAuth
// clients and the services onto one loop, then runs a REPL. Feed, like and
// session events are printed as they arrive.
//
// Typical flow: start (a stored token skips sign-in), login with the code
// shown by the authorization page, page through the feed with more, like or
// unlike photos, logout.
package cli
