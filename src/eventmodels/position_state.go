package eventmodels

type PositionState int

const (
	PositionStateFlat PositionState = iota
	PositionStateLongSpread
	PositionStateShortSpread
)

func (p PositionState) String() string {
	switch p {
	case PositionStateFlat:
		return "flat"
	case PositionStateLongSpread:
		return "long_spread"
	case PositionStateShortSpread:
		return "short_spread"
	default:
		return "unknown"
	}
}
