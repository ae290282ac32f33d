// Package state keeps per-chat conversation state in memory.
// It is domain-agnostic: callers choose the state type.
package state
