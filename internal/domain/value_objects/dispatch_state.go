package valueobjects

type DispatchState string

const (
	DispatchStateStarted              DispatchState = "started"
	DispatchStateResolvingSubscribers DispatchState = "resolving_subscribers"
	DispatchStateEmpty                DispatchState = "empty"
	DispatchStateFanningOut           DispatchState = "fanning_out"
	DispatchStateCompleted            DispatchState = "completed"
	DispatchStateFailed               DispatchState = "failed"
)

var dispatchStateTransitions = map[DispatchState][]DispatchState{
	DispatchStateStarted:              {DispatchStateResolvingSubscribers},
	DispatchStateResolvingSubscribers: {DispatchStateEmpty, DispatchStateFanningOut, DispatchStateFailed},
	DispatchStateEmpty:                {DispatchStateCompleted},
	DispatchStateFanningOut:           {DispatchStateCompleted},
}

func (s DispatchState) CanTransitionTo(next DispatchState) bool {
	for _, allowed := range dispatchStateTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s DispatchState) IsTerminal() bool {
	return s == DispatchStateCompleted || s == DispatchStateFailed
}

func (s DispatchState) String() string {
	return string(s)
}
