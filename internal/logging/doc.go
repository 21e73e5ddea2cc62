// Package logging provides opt-in file-based structured logging with
// rotation for the indexing and retrieval pipelines.
//
// When the --debug flag is set, comprehensive logs are written to
// ~/.codeindex/logs/ for troubleshooting. By default, logging stays
// minimal and goes to stderr only.
package logging
