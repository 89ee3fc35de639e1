// Package ingestion turns profile records into an embedded, searchable index.
//
// The Builder expands each ProfileRecord into its retrievable documents: one
// profile summary, one document per distinct skill, and one document per
// project. Document text is rendered with a fixed field order so identical
// records always produce byte-identical text, which keeps embeddings and
// tests reproducible.
//
// The Pipeline orchestrates a full index build: it runs the Builder, embeds
// the document texts in concurrent batches on a worker pool, and hands the
// embedded set to index.Build. Per-record validation failures are logged and
// skipped; embedding failures are retried with exponential backoff and, once
// retries are exhausted, abort the whole build.
package ingestion
