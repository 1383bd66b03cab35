package relay

import "fmt"

// ConnectionError reports a failure to establish the relay
// connection: an empty or malformed address, or a session that has
// already been used.
type ConnectionError struct {
	URL    string
	Reason string
}

func (e *ConnectionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("connection failed: %s", e.Reason)
	}
	return fmt.Sprintf("connection to %q failed: %s", e.URL, e.Reason)
}

// NotConnectedError reports an operation that requires an open
// session. The session state is left unchanged.
type NotConnectedError struct {
	Op    string
	State State
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("%s requires an open session (state: %s)", e.Op, e.State)
}

// SendError reports a transport write failure. The connection state
// is left unchanged.
type SendError struct {
	Frame string
	Err   error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send %s frame: %v", e.Frame, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}
