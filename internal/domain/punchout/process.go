package punchout

import "context"

// Process represents one punch-out shopping session, from the initial
// redirect into the supplier catalog up to the confirmed order.
//
// The JSON field names match the wire format the SRM clients already
// depend on; do not rename them.
type Process struct {
	ID string `json:"id"`
	// CallUpPayload holds whatever the supplier catalog POSTed back on
	// call-up. The shape is not under our control, so it stays a generic
	// string-keyed mapping. Each call-up replaces it wholesale.
	CallUpPayload map[string]any `json:"call_up_posted_data,omitempty"`
	// OrderRequestDocument is the exact cXML document sent to the
	// confirmation endpoint.
	OrderRequestDocument string `json:"cxml_request,omitempty"`
	// OrderResponseDocument is the raw reply body from the confirmation
	// endpoint. Never set without OrderRequestDocument.
	OrderResponseDocument string `json:"cxml_response,omitempty"`
}

// Clone returns a deep copy of the process. The registry owns all stored
// values, so everything it hands out is a clone.
func (p *Process) Clone() *Process {
	clone := *p
	if p.CallUpPayload != nil {
		clone.CallUpPayload = make(map[string]any, len(p.CallUpPayload))
		for k, v := range p.CallUpPayload {
			clone.CallUpPayload[k] = v
		}
	}
	return &clone
}

// ProcessRegistry is the concurrency-safe store of punch-out processes.
// All operations are atomic with respect to each other. Processes are
// never deleted; the registry accumulates entries for its lifetime.
type ProcessRegistry interface {
	// Create inserts a new empty process under a fresh unique id and
	// returns a copy of it.
	Create() *Process
	// Get returns a copy of the process, or a NOT_FOUND domain error.
	Get(id string) (*Process, error)
	// Update applies mutate to the stored process atomically, or returns
	// a NOT_FOUND domain error without calling mutate.
	Update(id string, mutate func(*Process)) error
	// Snapshot returns copies of all processes keyed by id.
	Snapshot() map[string]*Process
}

// ConfirmationDispatcher sends a synthesized order document to the remote
// confirmation endpoint and returns the raw reply body.
type ConfirmationDispatcher interface {
	Dispatch(ctx context.Context, document string) (string, error)
}
