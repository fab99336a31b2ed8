package submit

// State is the position of one request in its submission lifecycle.
// Every request moves UNSUBMITTED → SENT → (POLLING ⇄ RETRY_WAIT) →
// SEQUENCED → COSIGNING → PROOF_READY, with FAILED reachable from any
// non-terminal state.
type State int

const (
	StateUnsubmitted State = iota
	StateSent
	StatePolling
	StateRetryWait
	StateSequenced
	StateCosigning
	StateProofReady
	StateFailed
)

var stateNames = map[State]string{
	StateUnsubmitted: "UNSUBMITTED",
	StateSent:        "SENT",
	StatePolling:     "POLLING",
	StateRetryWait:   "RETRY_WAIT",
	StateSequenced:   "SEQUENCED",
	StateCosigning:   "COSIGNING",
	StateProofReady:  "PROOF_READY",
	StateFailed:      "FAILED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}
