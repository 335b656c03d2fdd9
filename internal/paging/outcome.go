package paging

import "fmt"

type OutcomeKind int

const (
	MoreAvailable OutcomeKind = iota
	EndReached
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case MoreAvailable:
		return "more_available"
	case EndReached:
		return "end_reached"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// Outcome is the result of one Load. Err is set only when Kind is Failed.
type Outcome struct {
	Kind OutcomeKind
	Err  error
}

func more() Outcome { return Outcome{Kind: MoreAvailable} }

func end() Outcome { return Outcome{Kind: EndReached} }

func failed(err error) Outcome { return Outcome{Kind: Failed, Err: err} }

func (o Outcome) EndOfPagination() bool {
	return o.Kind == EndReached
}

func (o Outcome) String() string {
	if o.Kind == Failed {
		return fmt.Sprintf("failed: %v", o.Err)
	}
	return o.Kind.String()
}
