package state

import "github.com/hive-kernel/hive/internal/generics"

// This file gives the public operations a direct, host-facing name matching the
// engine's external contract: Init, Place, Move, CompletionState, LegalPlacements
// and LegalMovements. They are thin wrappers over Board/Derived/Act -- the same
// machinery the CLI already drives through IsValid/Act -- but are the operations an
// embedding host (WASM, FFI, or in-process) is expected to call directly.

// CompletionStatus reports whether a match is still being played and, once it
// isn't, who won.
type CompletionStatus uint8

const (
	Incomplete CompletionStatus = iota
	BlackWon
	WhiteWon
	Draw
)

func (c CompletionStatus) String() string {
	switch c {
	case Incomplete:
		return "Incomplete"
	case BlackWon:
		return "BlackWon"
	case WhiteWon:
		return "WhiteWon"
	case Draw:
		return "Draw"
	default:
		return "Unknown"
	}
}

// Black is the player that moves first. White is the second player. These are the
// two PlayerNum values under the names the rules use.
const (
	Black = PlayerFirst
	White = PlayerSecond
)

// Init produces a fresh game in its initial state: empty board, full reserves,
// Black to move.
func Init() *Board {
	return NewBoard()
}

// Place validates and applies placing a reserve piece of the given kind at (q, r)
// for the side currently on move. On success it mutates *b in place (including
// advancing the turn, and skipping straight back over a side left with no legal
// action at all) and returns true; on any rule violation it returns false and leaves
// *b completely unchanged.
func (b *Board) Place(q, r int8, kind PieceType) bool {
	action := Action{Move: false, Piece: kind, TargetPos: Pos{q, r}}
	if !b.IsValid(action) {
		return false
	}
	*b = *b.Act(action)
	return true
}

// Move validates and applies relocating the on-board tile at (fromQ, fromR) to
// (toQ, toR). On success it mutates *b in place (including the same mandatory-skip
// handling as Place) and returns true; on any rule violation (including "nothing to
// move there") it returns false and leaves *b unchanged.
func (b *Board) Move(fromQ, fromR, toQ, toR int8) bool {
	from, to := Pos{fromQ, fromR}, Pos{toQ, toR}
	_, piece, _ := b.PieceAt(from)
	if piece == NoPiece {
		return false
	}
	action := Action{Move: true, Piece: piece, SourcePos: from, TargetPos: to}
	if !b.IsValid(action) {
		return false
	}
	*b = *b.Act(action)
	return true
}

// CompletionState reports whether the game is incomplete, drawn, or won by either
// side, purely from the queen-surround rule plus the stalemate "double pass" draw.
// The move-cap and threefold-repetition draws are host affordances, not part of
// this contract -- see Board.IsStalled and Board.IsRepeatedDraw.
func (b *Board) CompletionState() CompletionStatus {
	wins := b.Derived.Wins
	switch {
	case wins[Black] && wins[White]:
		return Draw
	case wins[Black]:
		return BlackWon
	case wins[White]:
		return WhiteWon
	case b.Derived.StalemateDraw:
		return Draw
	default:
		return Incomplete
	}
}

// IsStalled reports whether the match has reached its host-configured move cap
// (MoveNumber >= Board.MaxMoves). This is a host affordance against runaway games, not a rule
// of Hive -- it has no bearing on CompletionState.
func (b *Board) IsStalled() bool {
	return b.MoveNumber >= b.MaxMoves
}

// IsRepeatedDraw reports whether the current board position has now occurred
// MaxBoardRepeats times in this match's history. Like IsStalled, this is an
// auxiliary host affordance, not part of CompletionState's contract.
func (b *Board) IsRepeatedDraw() bool {
	return b.Derived.Repeats >= MaxBoardRepeats
}

// LegalPlacements enumerates every hex where the side on move may legally place
// some piece from its reserve, as a freshly allocated, sorted slice.
func (b *Board) LegalPlacements() []Pos {
	if b.available[b.NextPlayer].Count() == 0 {
		return []Pos{}
	}
	positions := generics.KeysSlice(b.Derived.PlacementPositions[b.NextPlayer])
	PosSort(positions)
	return positions
}

// LegalMovements enumerates the destinations the on-board tile at `from` (whatever
// currently sits at the top of its stack) may legally move to this turn. Returns an
// empty slice if there is no tile there, it isn't the mover's colour, the queen
// hasn't been placed yet, or the tile is pinned by the one-hive rule -- all of
// these are ordinary rule violations, not errors.
func (b *Board) LegalMovements(from Pos) []Pos {
	var positions []Pos
	for _, a := range b.Derived.Actions {
		if a.Move && a.SourcePos == from {
			positions = append(positions, a.TargetPos)
		}
	}
	PosSort(positions)
	return positions
}
