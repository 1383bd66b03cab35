// Package reader implements the core coordination logic of the feed
// reader.
//
// The reader wires the relay session to its collaborators:
//   - Projecting inbound events into articles (internal/article)
//   - Appending articles to the feed store
//   - Publishing articles and status signals to the event bus
//   - Recording metrics for every frame and failure
//
// The validator ensures subscription filters are well-formed before
// a REQ frame is built.
package reader
