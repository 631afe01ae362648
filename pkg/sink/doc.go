// Package sink provides the two Sink implementations the Dispatcher
// fans every completed Bulk out to: Console, a single shared line
// writer, and File, a per-worker unique-filename writer (spec §4.2,
// §4.3). Both satisfy internal/ports.Sink structurally — Sink is a
// one-method interface over pkg/bulk.Bulk (a type alias for
// internal/domain.Bulk), so nothing here needs to import internal/app.
package sink
