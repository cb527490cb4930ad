package neighbornet

// Phase names a stage of the pipeline for progress reports and cancellation
// errors.
type Phase string

const (
	PhaseAgglomeration Phase = "agglomeration"
	PhaseExpansion     Phase = "expansion"
	PhaseWeights       Phase = "split weights"
	PhaseBatch         Phase = "batch"
)

// Progress is an advisory snapshot of how far a phase has come.
// Total is an upper bound and may not be reached (the active-set solver
// usually converges early).
type Progress struct {
	Phase Phase
	Step  int
	Total int
}

// ProgressFunc receives progress reports. It is called synchronously from the
// computing goroutine and must not block for long.
type ProgressFunc func(Progress)

// report calls fn if it is set.
func (fn ProgressFunc) report(phase Phase, step, total int) {
	if fn != nil {
		fn(Progress{Phase: phase, Step: step, Total: total})
	}
}
