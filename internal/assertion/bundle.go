package assertion

// Bundle pairs the queued (one-shot) queue and the permanent (standing)
// set for a single event kind.
//
// The two collections are evaluated independently: permanent assertions
// never block or get consumed by queued ones.
type Bundle struct {
	queued    *Queue
	permanent *Queue
}

// NewBundle creates a bundle with empty collections.
func NewBundle() *Bundle {
	return &Bundle{
		queued:    NewQueue(),
		permanent: NewQueue(),
	}
}

// Queued returns the one-shot queue. The head is applied to the next
// matching event and removed afterwards.
func (b *Bundle) Queued() *Queue { return b.queued }

// Permanent returns the standing set, applied to every matching event
// until explicitly cleared.
func (b *Bundle) Permanent() *Queue { return b.permanent }
