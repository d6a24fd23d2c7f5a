// Package wire defines the UTF-8 JSON frame shapes exchanged between
// clients and the session server, and the translation from a board
// projection to its wire representation.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/GabinFqt/minesweeper-session-server/internal/board"
)

// Pos is the wire representation of a board.Position.
type Pos struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

func FromBoardPosition(p board.Position) Pos {
	return Pos{X: p.X, Y: p.Y}
}

func (p Pos) ToBoardPosition() board.Position {
	return board.Position{X: p.X, Y: p.Y}
}

// CellView is one of "hidden", "flagged", "bomb", or a small non-negative
// integer 0-8. It marshals to a JSON string or a JSON number depending on
// the underlying projection.
type CellView struct {
	projection board.Projection
}

func FromProjection(p board.Projection) CellView {
	return CellView{projection: p}
}

func (v CellView) MarshalJSON() ([]byte, error) {
	switch v.projection.Kind {
	case board.ProjectionHidden:
		return []byte(`"hidden"`), nil
	case board.ProjectionFlagged:
		return []byte(`"flagged"`), nil
	case board.ProjectionBomb:
		return []byte(`"bomb"`), nil
	case board.ProjectionNumber:
		return []byte(fmt.Sprintf("%d", v.projection.Number)), nil
	default:
		return nil, fmt.Errorf("wire: unknown projection kind %d", v.projection.Kind)
	}
}

func (v *CellView) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("wire: empty cell view")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		switch s {
		case "hidden":
			v.projection = board.Projection{Kind: board.ProjectionHidden}
		case "flagged":
			v.projection = board.Projection{Kind: board.ProjectionFlagged}
		case "bomb":
			v.projection = board.Projection{Kind: board.ProjectionBomb}
		default:
			return fmt.Errorf("wire: unrecognized cell view %q", s)
		}
		return nil
	}
	var n uint8
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	v.projection = board.Projection{Kind: board.ProjectionNumber, Number: n}
	return nil
}

// ClientAction is the action discriminator sent by a client.
type ClientAction string

const (
	ActionReveal  ClientAction = "reveal"
	ActionFlag    ClientAction = "flag"
	ActionRestart ClientAction = "restart"
)

// ClientMessage is an inbound client -> server frame.
type ClientMessage struct {
	Action ClientAction `json:"action"`
	Pos    Pos          `json:"pos"`
}

// ServerFrameType is the type discriminator of an outbound frame.
type ServerFrameType string

const (
	FrameInit   ServerFrameType = "init"
	FrameUpdate ServerFrameType = "update"
)

// InitFrame is the full board snapshot sent on attach and after restart.
type InitFrame struct {
	Type   ServerFrameType `json:"type"`
	Width  uint16          `json:"width"`
	Height uint16          `json:"height"`
	Bombs  uint16          `json:"bombs"`
	Field  [][]CellView    `json:"field"`
}

func NewInitFrame(width, height, bombs uint16, field [][]board.Projection) InitFrame {
	rows := make([][]CellView, len(field))
	for y, row := range field {
		cells := make([]CellView, len(row))
		for x, p := range row {
			cells[x] = FromProjection(p)
		}
		rows[y] = cells
	}
	return InitFrame{Type: FrameInit, Width: width, Height: height, Bombs: bombs, Field: rows}
}

// UpdatedCell is one changed cell in an UpdateFrame.
type UpdatedCell struct {
	Pos  Pos       `json:"pos"`
	Cell CellView  `json:"cell"`
}

// UpdateFrame lists changed cells plus the current won/lost flags.
type UpdateFrame struct {
	Type    ServerFrameType `json:"type"`
	Updates []UpdatedCell   `json:"updates"`
	Won     bool            `json:"won"`
	Lost    bool            `json:"lost"`
}

func NewUpdateFrame(changes []board.Change, won, lost bool) UpdateFrame {
	updates := make([]UpdatedCell, len(changes))
	for i, c := range changes {
		updates[i] = UpdatedCell{Pos: FromBoardPosition(c.Pos), Cell: FromProjection(c.Projection)}
	}
	return UpdateFrame{Type: FrameUpdate, Updates: updates, Won: won, Lost: lost}
}
