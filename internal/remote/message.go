package remote

import (
	"encoding/json"
	"fmt"

	"github.com/hailam/chessboard/internal/board"
	"github.com/hailam/chessboard/internal/chessboard"
)

// MessageType names a frame on the board socket.
type MessageType string

// Inbound message types.
const (
	MessageClick       MessageType = "click"
	MessagePointerDown MessageType = "pointerDown"
	MessagePointerMove MessageType = "pointerMove"
	MessagePointerUp   MessageType = "pointerUp"
	MessagePromote     MessageType = "promote"
	MessageCancel      MessageType = "cancel"
	MessageMove        MessageType = "move"
	MessagePosition    MessageType = "position"
	MessageUndo        MessageType = "undo"
	MessageRedo        MessageType = "redo"
	MessageFlip        MessageType = "flip"
	MessageReset       MessageType = "reset"
	MessageClear       MessageType = "clear"
)

// Outbound message types. Surface events go out under their own kind
// ("put", "translate", ...).
const (
	MessageSnapshot MessageType = "snapshot"
	MessageChange   MessageType = "change"
	MessageMoveEnd  MessageType = "moveEnd"
	MessageError    MessageType = "error"
)

// Message is one frame on the board socket.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type squarePayload struct {
	Square string `json:"square"`
}

type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type promotePayload struct {
	Piece string `json:"piece"`
}

type specPayload struct {
	Move       string `json:"move,omitempty"`
	Position   string `json:"position,omitempty"`
	Instant    bool   `json:"instant,omitempty"`
	Sequential bool   `json:"sequential,omitempty"`
}

// Command is a decoded inbound message. Only the fields its type uses are
// set.
type Command struct {
	Type     MessageType
	Square   board.Square
	Point    board.Point
	Piece    board.PieceType
	Move     board.Move
	Position string
	Options  chessboard.Options
}

// Decode parses and validates one inbound frame.
func Decode(data []byte) (Command, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Command{}, fmt.Errorf("decode: %w", err)
	}
	cmd := Command{Type: msg.Type, Square: board.NoSquare}

	switch msg.Type {
	case MessageCancel, MessageUndo, MessageRedo, MessageFlip, MessageReset, MessageClear:
		return cmd, nil

	case MessageClick:
		var p squarePayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return Command{}, err
		}
		sq, err := board.ParseSquare(p.Square)
		if err != nil {
			return Command{}, fmt.Errorf("decode %s: %w", msg.Type, err)
		}
		cmd.Square = sq

	case MessagePointerDown, MessagePointerMove, MessagePointerUp:
		var p pointPayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return Command{}, err
		}
		cmd.Point = board.Point{X: p.X, Y: p.Y}

	case MessagePromote:
		var p promotePayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return Command{}, err
		}
		if len(p.Piece) != 1 {
			return Command{}, fmt.Errorf("decode %s: %w", msg.Type, &board.Error{Kind: board.KindInvalidInput, Field: "piece", Value: p.Piece})
		}
		pt, err := board.ParsePieceType(p.Piece[0])
		if err != nil {
			return Command{}, fmt.Errorf("decode %s: %w", msg.Type, err)
		}
		cmd.Piece = pt

	case MessageMove:
		var p specPayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return Command{}, err
		}
		m, err := board.ParseMove(p.Move)
		if err != nil {
			return Command{}, fmt.Errorf("decode %s: %w", msg.Type, err)
		}
		cmd.Move = m
		cmd.Options = chessboard.Options{Instant: p.Instant, Sequential: p.Sequential}

	case MessagePosition:
		var p specPayload
		if err := unmarshalPayload(msg, &p); err != nil {
			return Command{}, err
		}
		fen, err := board.ParsePosition(p.Position)
		if err != nil {
			return Command{}, fmt.Errorf("decode %s: %w", msg.Type, err)
		}
		cmd.Position = fen
		cmd.Options = chessboard.Options{Instant: p.Instant, Sequential: p.Sequential}

	default:
		return Command{}, fmt.Errorf("decode: %w", &board.Error{Kind: board.KindInvalidInput, Field: "type", Value: string(msg.Type)})
	}
	return cmd, nil
}

func unmarshalPayload(msg Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("decode %s: %w", msg.Type, &board.Error{Kind: board.KindInvalidInput, Field: "payload"})
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Type, err)
	}
	return nil
}

// NewMessage builds an outbound frame.
func NewMessage(t MessageType, payload any) Message {
	msg := Message{Type: t}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err == nil {
			msg.Payload = data
		}
	}
	return msg
}

type changePayload struct {
	FEN string `json:"fen"`
}

type moveEndPayload struct {
	Move    string `json:"move"`
	SAN     string `json:"san"`
	FEN     string `json:"fen"`
	Outcome string `json:"outcome"`
}

type errorPayload struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func errorMessage(err error) Message {
	kind := "internal"
	if k := board.KindOf(err); k != 0 {
		kind = k.String()
	}
	return NewMessage(MessageError, errorPayload{Kind: kind, Message: err.Error()})
}

type occupantPayload struct {
	ID     board.PieceID `json:"id"`
	Piece  string        `json:"piece"`
	Square string        `json:"square"`
}

// snapshotPayload is what a client joining mid-game needs to draw the
// board before replaying further events.
type snapshotPayload struct {
	ID          string            `json:"id"`
	FEN         string            `json:"fen"`
	Orientation string            `json:"orientation"`
	State       string            `json:"state"`
	Pieces      []occupantPayload `json:"pieces"`
	Highlighted []string          `json:"highlighted,omitempty"`
	Selected    []string          `json:"selected,omitempty"`
	Hints       []string          `json:"hints,omitempty"`
}

func squareNames(set board.SquareSet) []string {
	var out []string
	for _, sq := range set.Squares() {
		out = append(out, sq.String())
	}
	return out
}
