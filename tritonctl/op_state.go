package tritonctl

import "sync/atomic"

// OpState is the lifecycle state of a Client.
type OpState uint32

const (
	ClosedState OpState = iota
	ClosingState
	OpeningState
	OpenedState
)

func (s OpState) String() string {
	switch s {
	case ClosedState:
		return "Closed"
	case ClosingState:
		return "Closing"
	case OpeningState:
		return "Opening"
	case OpenedState:
		return "Opened"
	default:
		return "Unknown"
	}
}

// AtomicOpState holds an OpState and moves it along
// Closed -> Opening -> Opened -> Closing -> Closed.
type AtomicOpState struct {
	state atomic.Uint32
}

func (st *AtomicOpState) String() string { return st.Get().String() }

// Get returns the current state.
func (st *AtomicOpState) Get() OpState { return OpState(st.state.Load()) }

// Set forces the state.
func (st *AtomicOpState) Set(state OpState) { st.state.Store(uint32(state)) }

func (st *AtomicOpState) IsClosed() bool { return st.Get() == ClosedState }

func (st *AtomicOpState) IsOpened() bool { return st.Get() == OpenedState }

// transit moves to the target state if the current state is one of from.
func (st *AtomicOpState) transit(to OpState, from ...OpState) bool {
	for _, f := range from {
		if st.state.CompareAndSwap(uint32(f), uint32(to)) {
			return true
		}
	}

	return false
}

// ToOpening succeeds only from Closed, so concurrent Open calls have a single winner.
func (st *AtomicOpState) ToOpening() bool { return st.transit(OpeningState, ClosedState) }

func (st *AtomicOpState) ToOpened() bool { return st.transit(OpenedState, OpeningState) }

// ToClosing succeeds from Opened or Opening.
func (st *AtomicOpState) ToClosing() bool { return st.transit(ClosingState, OpenedState, OpeningState) }

// ToClosed succeeds from any state but Closed.
func (st *AtomicOpState) ToClosed() bool {
	return st.transit(ClosedState, ClosingState, OpeningState, OpenedState)
}
