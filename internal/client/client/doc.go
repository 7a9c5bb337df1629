// Package client contains the network and persistence plumbing of the
// ImageFeed client.
//
// # Overview
//
//  1. HTTPClient sends requests, classifies failures into NetworkError kinds
//     and decodes JSON bodies. Its asynchronous forms resolve futures on a
//     designated executor.
//  2. API builds the authenticated photo service calls (feed page, like,
//     current user, public user).
//  3. OAuth runs the authorization-code exchange over golang.org/x/oauth2.
//  4. SessionCookies is the cookie jar shared by OAuth and API.
//  5. InitDatabase and RunMigrations open the local SQLite store and apply
//     the embedded goose migrations.
//
// # Error Handling
//
// Failures are matched with errors.Is against ErrTransport, ErrHTTPStatus,
// ErrDecoding, ErrNoResponse and ErrInvalidRequest. ErrTokenMissing is
// returned before any I/O when no bearer token is stored.
package client
