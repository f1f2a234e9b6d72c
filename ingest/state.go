package ingest

// State of the ingest loop.
type State int32

const (
	Connecting State = iota
	Streaming
)

func (s State) String() string {
	switch s {
	case Connecting:
		return `connecting`
	case Streaming:
		return `streaming`
	default:
		return `unknown`
	}
}
