// Package ports defines the interfaces that connect the application
// layer (internal/app) to infrastructure adapters.
//
// In hexagonal architecture, ports are the boundary between the
// application core and the outside world: they state what the
// application needs from external systems without specifying how those
// needs are fulfilled.
//
// # Port Interfaces
//
//   - [Logger]: structured logging abstraction (aliases pkg/log.Logger)
//   - [Sink]: receives completed Bulks for formatting and delivery
//
// The application layer depends only on these interfaces; concrete
// sinks live in pkg/sink, and the zerolog/no-op logger adapters live in
// pkg/log. This keeps internal/app swappable and testable with stub
// implementations that satisfy nothing more than these two shapes.
package ports
