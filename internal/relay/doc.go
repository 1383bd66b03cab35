// Package relay implements the client side of the nostr relay
// protocol: a single-use WebSocket session with an explicit
// connection state machine, one active subscription at a time, and
// inbound frame dispatch (EVENT/EOSE/OK/NOTICE).
//
// Sessions never fail fatally: malformed frames are logged and
// dropped, relay rejections surface as warning statuses, and every
// error degrades to a reported status with the session left in a
// stable state.
package relay
