package platform

// Package platform contains OS/platform integration and external tooling glue:
// URL shape validation, filesystem helpers, and playlist metadata preview.
