package model

// RenderPhase tags the active variant of a RenderState.
type RenderPhase string

const (
	RenderLoading RenderPhase = "loading"
	RenderError   RenderPhase = "error"
	RenderReady   RenderPhase = "ready"
)

// RenderState is the input of the card renderer. Exactly one of the variants
// is active, selected by Phase; the other fields are zero.
type RenderState struct {
	Phase     RenderPhase
	ErrorKind ErrorKind
	Message   string
	Record    RepositoryRecord
	Display   DisplayConfig
}

// LoadingState is only produced by the live preview while a fetch is in flight.
func LoadingState() RenderState {
	return RenderState{Phase: RenderLoading}
}

// ErrorState classifies err and carries its user-visible message.
func ErrorState(err error) RenderState {
	return ErrorStateForKind(ClassifyError(err))
}

// ErrorStateForKind builds an error state from an already classified failure.
func ErrorStateForKind(kind ErrorKind) RenderState {
	return RenderState{Phase: RenderError, ErrorKind: kind, Message: kind.Message()}
}

// ReadyState wraps a fetched record and the toggles to render it with.
func ReadyState(record RepositoryRecord, display DisplayConfig) RenderState {
	return RenderState{Phase: RenderReady, Record: record, Display: display}
}
