// Package facade implements the operation façade: uniform, schema-typed
// wrappers over the index engine, write engine, and webhook engine,
// grounded on the teacher repo's internal/mcp/tools.go (typed
// Input/Output structs per tool call, with coded errors translated to
// a protocol-safe shape rather than surfaced as Go panics).
package facade

import (
	apperr "github.com/macward/vibemcp/internal/errors"
	"github.com/macward/vibemcp/internal/indexer"
	"github.com/macward/vibemcp/internal/webhook"
	"github.com/macward/vibemcp/internal/write"
)

// Facade composes the three engines behind the operation surface named in
// the design's external interfaces section. Every method returns a plain
// result record on success; user-facing failures come back as an
// OperationError rather than a raw Go error, so callers on the protocol
// boundary never see an internal representation.
type Facade struct {
	root    string
	indexer *indexer.Indexer
	write   *write.Engine
	webhook *webhook.Engine
}

// New builds a Facade rooted at root, over the given engines.
func New(root string, ix *indexer.Indexer, wr *write.Engine, wh *webhook.Engine) *Facade {
	return &Facade{root: root, indexer: ix, write: wr, webhook: wh}
}

// OperationError is the closed error shape that crosses the façade boundary.
// No internal Go error, stack trace, or wrapped cause is ever attached.
type OperationError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// toOperationError maps an internal coded error to the protocol-safe shape.
// Any error not already an *apperr.Error is reported as fatal-init, which
// should not happen in practice — it signals a missed translation site.
func toOperationError(err error) *OperationError {
	if err == nil {
		return nil
	}
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.KindFatalInit
	}
	return &OperationError{Kind: string(kind), Message: err.Error()}
}
