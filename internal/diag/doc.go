// Package diag defines the diagnostic model shared by the unit loader, the
// expression compiler and the build driver.
//
// Diagnostic is the central record: Severity, a numeric Code with a stable
// string form (see codes.go), a short Message and a Primary Origin naming the
// unit, expression and node path the finding is about. Notes add secondary
// context and should not repeat the message.
//
// Producers emit through a Reporter (usually BagReporter) so they never depend
// on storage or formatting. Package diag performs no IO; rendering lives in
// internal/diagfmt.
package diag
