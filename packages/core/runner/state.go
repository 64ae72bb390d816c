package runner

// State is the lifecycle position of a case within a run.
type State int

const (
	StatePending State = iota
	StateDispatched
	StateExtracted
	StateExtractionSkipped
	StateJudged
	StateLogged
)

var stateNames = [...]string{
	StatePending:           "pending",
	StateDispatched:        "dispatched",
	StateExtracted:         "extracted",
	StateExtractionSkipped: "extraction-skipped",
	StateJudged:            "judged",
	StateLogged:            "logged",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// next reports whether a case in s may move to to.
func (s State) next(to State) bool {
	switch s {
	case StatePending:
		return to == StateDispatched
	case StateDispatched:
		return to == StateExtracted || to == StateExtractionSkipped
	case StateExtracted, StateExtractionSkipped:
		return to == StateJudged
	case StateJudged:
		return to == StateLogged
	}
	return false
}
