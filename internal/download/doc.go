package download

// Package download implements the core download pipeline: the orchestrator
// that walks a strategy plan against the extraction engine, the error
// classifier that turns engine failures into user-facing explanations, and
// the session service that tracks in-flight downloads for the shells.
