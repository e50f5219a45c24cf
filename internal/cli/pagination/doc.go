// Package pagination sorts and pages the per-scenario summaries listed by
// the batch command.
//
// It provides:
//   - Params: --limit, --offset and --sort flag values and their validation
//   - SummarySorter: stable sorting of report summaries by a named field
package pagination
