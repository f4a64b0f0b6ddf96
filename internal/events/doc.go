// Package events provides types and interfaces for an event-driven architecture.
//
// This package defines event types and handler interfaces that allow for loose
// coupling between components in the system. The progress service emits an
// event after each committed learning event (a review, a learned word, a
// finished session) without knowing which handlers will process it; handlers
// like the stats export refresher subscribe independently, enabling better
// separation of concerns and reducing circular dependencies.
//
// The primary components are:
// - ProgressEvent: Represents one committed learning event
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
