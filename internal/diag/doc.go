// Package diag defines the diagnostic model shared by every compiler phase:
// declaration loading, parameter type checking and plugin call lowering.
//
// Diagnostic is the central record (Severity, Code, Message, Primary span,
// Notes). Phases emit through a Reporter so that storage stays decoupled;
// BagReporter aggregates into a Bag which supports sorting and deduplication.
// Rendering lives in internal/diagfmt.
//
// Codes are grouped by phase: SYN (declaration syntax), SEM (parameter and
// type checking), PLG (plugin dispatch) and PRJ (project / io).
package diag
