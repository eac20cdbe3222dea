// Package util provides logging helpers and common error types.
package util

import (
	"errors"
	"fmt"
)

// Sentinel errors for the verification core
var (
	ErrBadShape          = errors.New("policy not in accepted normal form")
	ErrNodeNotFound      = errors.New("node not found in topology")
	ErrNoPath            = errors.New("no path between nodes")
	ErrSolverUnavailable = errors.New("solver not available")
	ErrUnknownVerdict    = errors.New("solver returned unknown verdict")
)

// ShapeError reports a policy constructor that is not accepted by the
// layer that rejected it. Shape errors are fatal and never retried.
type ShapeError struct {
	Layer       string // "policy compiler" or "unroller"
	Constructor string // description of the offending constructor
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: policy not in accepted normal form: %s", e.Layer, e.Constructor)
}

func (e *ShapeError) Unwrap() error {
	return ErrBadShape
}

// NewShapeError creates a shape error for the given layer and constructor
func NewShapeError(layer, constructor string) *ShapeError {
	return &ShapeError{Layer: layer, Constructor: constructor}
}

// LookupError reports a failed topology lookup (node, port, or path).
type LookupError struct {
	Kind   string // "node", "port", "path"
	Name   string
	Target string // second endpoint for path lookups
}

func (e *LookupError) Error() string {
	if e.Kind == "path" {
		return fmt.Sprintf("no path between '%s' and '%s'", e.Name, e.Target)
	}
	return fmt.Sprintf("%s '%s' not found in topology", e.Kind, e.Name)
}

func (e *LookupError) Unwrap() error {
	if e.Kind == "path" {
		return ErrNoPath
	}
	return ErrNodeNotFound
}

// NewLookupError creates a node or port lookup error
func NewLookupError(kind, name string) *LookupError {
	return &LookupError{Kind: kind, Name: name}
}

// NewPathError creates a path lookup error between two nodes
func NewPathError(from, to string) *LookupError {
	return &LookupError{Kind: "path", Name: from, Target: to}
}

// SolverError reports a solver process or protocol failure.
type SolverError struct {
	Solver string
	Output string
	Err    error
}

func (e *SolverError) Error() string {
	msg := fmt.Sprintf("solver %s failed", e.Solver)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += " (" + e.Output + ")"
	}
	return msg
}

func (e *SolverError) Unwrap() error {
	return ErrSolverUnavailable
}

// NewSolverError creates a solver failure error
func NewSolverError(solver, output string, err error) *SolverError {
	return &SolverError{Solver: solver, Output: output, Err: err}
}
