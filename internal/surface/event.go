package surface

import (
	"github.com/hailam/chessboard/internal/board"
)

// EventKind names a surface change.
type EventKind string

const (
	EventPut           EventKind = "put"
	EventTranslate     EventKind = "translate"
	EventAnimate       EventKind = "animate"
	EventSetPiece      EventKind = "promote"
	EventLift          EventKind = "lift"
	EventFollow        EventKind = "follow"
	EventPlace         EventKind = "place"
	EventStop          EventKind = "stop"
	EventDestroy       EventKind = "destroy"
	EventHighlight     EventKind = "highlight"
	EventDehighlight   EventKind = "dehighlight"
	EventSelect        EventKind = "select"
	EventDeselect      EventKind = "deselect"
	EventHints         EventKind = "hints"
	EventClearHints    EventKind = "clearHints"
	EventShowPromotion EventKind = "showPromotion"
	EventHidePromotion EventKind = "hidePromotion"
	EventFlip          EventKind = "flip"
)

// Event is one change made to a Memory surface, in a form a remote client
// can replay.
type Event struct {
	Kind    EventKind     `json:"kind"`
	ID      board.PieceID `json:"id,omitempty"`
	Piece   string        `json:"piece,omitempty"`
	Square  string        `json:"square,omitempty"`
	Squares []string      `json:"squares,omitempty"`
	Effect  string        `json:"effect,omitempty"`
	Millis  int64         `json:"ms,omitempty"`
	File    float64       `json:"file,omitempty"`
	Rank    float64       `json:"rank,omitempty"`
	Color   string        `json:"color,omitempty"`
	Flipped bool          `json:"flipped,omitempty"`
}

func squareNames(set board.SquareSet) []string {
	squares := set.Squares()
	out := make([]string, len(squares))
	for i, sq := range squares {
		out[i] = sq.String()
	}
	return out
}
