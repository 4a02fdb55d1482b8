package model

// Package model defines domain data structures used across the app: download
// requests, strategy plans, attempt outcomes, progress events, and status
// enums. Structures carry no behavior beyond normalization and simple state
// predicates.
