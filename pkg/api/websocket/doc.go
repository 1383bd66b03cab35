// Package websocket streams the live feed to UI clients.
//
// Clients connect to /api/v1/feed/ws and receive article, status
// and clear-list events as JSON frames.
package websocket
