package ports

import "github.com/corewave-labs/bulkstream/internal/domain"

// Sink receives a completed Bulk for formatting and delivery. Per spec
// §4.2/§4.3, a Sink never surfaces an error to its caller: I/O failures
// are logged and the Bulk is dropped for that sink only.
type Sink interface {
	Emit(domain.Bulk)
}
