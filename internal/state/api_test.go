package state_test

import (
	. "github.com/hive-kernel/hive/internal/state"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestInitPlaceMove(t *testing.T) {
	b := Init()
	assert.Equal(t, Incomplete, b.CompletionState())

	// Black opens by placing a Queen at the origin.
	assert.True(t, b.Place(0, 0, QUEEN))
	// It is White's turn now, and White must place next to Black's lone tile.
	assert.False(t, b.Place(3, 3, ANT))

	// White places next to it.
	assert.True(t, b.Place(1, 0, ANT))

	// A bogus placement (occupied hex) is rejected and leaves the board untouched.
	before := *b
	assert.False(t, b.Place(0, 0, SPIDER))
	assert.Equal(t, before, *b)

	// Moving from an empty hex fails: there is nothing there to move.
	assert.False(t, b.Move(5, 5, 6, 6))
}

func TestCompletionStateOnlyTracksQueenSurround(t *testing.T) {
	// Drive real plies past a deliberately tiny move cap -- no queen ever gets
	// surrounded -- and check the cap shows up in the host-level affordances
	// (IsStalled, IsFinished, Draw) but never leaks into CompletionState, which
	// only ever tracks the queen-surround rule.
	b := Init()
	b.MaxMoves = 2
	assert.True(t, b.Place(0, 0, QUEEN))
	assert.True(t, b.Place(1, 0, ANT))

	assert.True(t, b.IsStalled())
	assert.True(t, b.IsFinished())
	assert.True(t, b.Draw())
	assert.Equal(t, PlayerInvalid, b.Winner())
	assert.Equal(t, Incomplete, b.CompletionState())
}

func TestLegalPlacementsAndMovements(t *testing.T) {
	b := Init()
	placements := b.LegalPlacements()
	assert.ElementsMatch(t, []Pos{{0, 0}}, placements)

	assert.True(t, b.Place(0, 0, QUEEN))
	// White may now place adjacent to Black's lone tile.
	whitePlacements := b.LegalPlacements()
	assert.ElementsMatch(t, Pos{0, 0}.Neighbours(), whitePlacements)

	// Nothing sits at (5, 5), so there are no legal movements from there.
	assert.Empty(t, b.LegalMovements(Pos{5, 5}))
}

func TestIsRepeatedDrawInitiallyFalse(t *testing.T) {
	b := Init()
	assert.False(t, b.IsRepeatedDraw())
}

func TestMandatorySingleSkip(t *testing.T) {
	// White's only tile ends up buried under a beetle with nothing else on the board:
	// White has no legal action at all, so every one of Black's following plies must
	// hand the turn straight back to Black: Act (through advanceTurn) skips the turn
	// of a side left with nothing to do.
	b := Init()
	assert.True(t, b.Place(0, 0, QUEEN))   // Black
	assert.True(t, b.Place(-1, 0, QUEEN))  // White
	assert.True(t, b.Place(1, -1, BEETLE)) // Black
	assert.True(t, b.Move(-1, 0, 0, -1))   // White queen slides to (0, -1)
	assert.True(t, b.Move(1, -1, 0, -1))   // Black beetle climbs onto the White queen

	assert.Equal(t, Incomplete, b.CompletionState())

	// White stays stuck through every one of these: they are all Black plies,
	// closing in on White's buried queen at (0, -1).
	assert.True(t, b.Place(1, -1, GRASSHOPPER))
	assert.True(t, b.Place(-1, -1, GRASSHOPPER))
	assert.True(t, b.Place(-1, 0, GRASSHOPPER))
	assert.True(t, b.Place(0, -2, ANT))
	assert.True(t, b.Place(1, -2, ANT))

	assert.Equal(t, BlackWon, b.CompletionState())
}
