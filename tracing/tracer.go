package tracing

// A Tracer consumes the op records that components emit.
type Tracer interface {
	RecordOp(op Op)
}
