package tracing

// Span attribute keys.
const (
	AttrKey         = "input.key"
	AttrAbsorbed    = "input.absorbed"
	AttrFocusHandle = "focus.handle"
	AttrFocusKind   = "focus.kind"
	AttrFocusDepth  = "focus.depth"
	AttrActionKind  = "action.kind"
	AttrBackend     = "store.backend"
	AttrEntities    = "store.entities"
)

// Span names.
const (
	SpanHandleKey = "input.handle_key"
	SpanApply     = "action.apply"
	SpanSave      = "store.save"
	SpanLoad      = "store.load"
	SpanReload    = "store.reload"
)
