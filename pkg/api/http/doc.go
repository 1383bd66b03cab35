// Package http provides the REST API for the feed reader.
//
// Endpoints:
//   - POST /api/v1/subscription: issue a new subscription filter
//   - GET  /api/v1/articles: the current article list
//   - GET  /api/v1/status: session state and last status line
//   - DELETE /api/v1/connection: disconnect from the relay
package http
