package voucher

import "context"

// ActingUser is the minimal identity context every hook requires; per §6,
// a missing TenantID is a hard error before any write-through is attempted.
type ActingUser struct {
	TenantID string
	UserID   string
}

// Handler is the closed hook set §4.8 requires every voucher kind to
// register: beforeSave prepares computed fields, onSubmit performs the
// side-effecting stock/GL writes, onCancel reverses them. Implementations
// receive the document as `any` and type-assert to their own kind — this
// mirrors the document hook registry of §6, an external, metadata-driven
// dispatcher rather than a compile-time generic per document type.
type Handler interface {
	BeforeSave(ctx context.Context, doc any, user ActingUser) error
	OnSubmit(ctx context.Context, doc any, user ActingUser) error
	OnCancel(ctx context.Context, doc any, user ActingUser) error
}

// Registry maps a document kind name to its Handler, the in-process
// analog of §6's external document hook registry.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register associates a document kind with its Handler.
func (r *Registry) Register(docType string, handler Handler) {
	r.handlers[docType] = handler
}

// Handler returns the registered Handler for a document kind, or nil if
// none was registered.
func (r *Registry) Handler(docType string) Handler {
	return r.handlers[docType]
}
