// Package domain holds the types and state machine at the core of
// bulkstream: the Bulk value produced by a Context, and the Context
// itself, which turns a byte stream of newline-delimited commands into
// a sequence of Bulks under a static-size-or-dynamic-block policy.
//
// Nothing here touches I/O, goroutines, or wall-clock formatting beyond
// capturing a timestamp; a Context is driven entirely by bytes handed
// to it by a caller, and hands completed Bulks to a narrow Submitter
// port rather than depending on the dispatch or sink packages directly.
package domain
