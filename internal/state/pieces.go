package state

import "fmt"

var _ = fmt.Printf

// EmptyAndConnectedNeighbours returns neighbouring positions that are empty but
// still connected to the graph of insects.
//
// It also checks that piece is not "squeezing" through two other pieces, or that
// it moves loosing touch to pieces -- that is, the intersection of neighboring
// pieces before and after the move must be non-empty.
//
// Args:
//
//	srcPos: from where this move starts.
//	originalPos: where the piece is going to leave from: this is equal to
//	  srcPos for the first step of a piece, and then something different
//	  later on. Presumably will be empty and therefore can't be considered as
//	  an occupied neighboor.
//	invalid: Set of positions not to consider, since they were already visited.
func (b *Board) EmptyAndConnectedNeighbours(srcPos, originalPos Pos, invalid map[Pos]bool) (poss []Pos) {
	poss = make([]Pos, 0, NumNeighbors)

	// Initialize neighbours and occupied predicate (assuming the piece will leave originalPos).
	neighbours := srcPos.Neighbours()
	occupied := make([]bool, NumNeighbors)
	for ii := 0; ii < NumNeighbors; ii++ {
		occupied[ii] = b.HasPiece(neighbours[ii]) && neighbours[ii] != originalPos
	}

	// Find valid connections.
	for ii := 0; ii < NumNeighbors; ii++ {
		tgtPos := neighbours[ii]
		if invalid[tgtPos] {
			// Likely already visited.
			continue
		}
		if occupied[ii] {
			// Target destination must be empty.
			continue
		}
		positionLeftOfMoveOccupied := occupied[(ii+1)%NumNeighbors]
		positionRightOfMoveOccupied := occupied[(ii-1+NumNeighbors)%NumNeighbors]
		if positionLeftOfMoveOccupied && positionRightOfMoveOccupied {
			// Squeeze between two pieces is not allowed.
			continue
		}
		if !positionLeftOfMoveOccupied && !positionRightOfMoveOccupied {
			// But at least one of the two positions in between the source and target positions
			// must be occupied.
			continue
		}
		poss = append(poss, tgtPos)
	}
	return
}

// queenMoves enumerates the valid moves for the Queen located at the given position.
func (b *Board) queenMoves(srcPos Pos) (poss []Pos) {
	return b.EmptyAndConnectedNeighbours(srcPos, srcPos, make(map[Pos]bool))
}

// spiderMoves enumerates the valid moves for the Spider located at the given position.
func (b *Board) spiderMoves(srcPos Pos) (poss []Pos) {
	poss = nil
	endPos := map[Pos]bool{}
	visitedPath := map[Pos]bool{srcPos: true}
	b.spiderMovesDFS(srcPos, srcPos, 3, endPos, visitedPath)
	for pos := range endPos {
		poss = append(poss, pos)
	}
	return poss
}

// spiderMovesDFS traverse connected neighbours and keeps track of valid final destinations for
// a spider in endPos.
func (b *Board) spiderMovesDFS(srcPos, originalPos Pos, depth int, endPos, visitedPath map[Pos]bool) {
	depth--
	if depth == 0 {
		// When the number of moves are over, take the final steps.
		for _, pos := range b.EmptyAndConnectedNeighbours(srcPos, originalPos, visitedPath) {
			endPos[pos] = true
		}
	} else {
		// Recursively visited next steps.
		for _, pos := range b.EmptyAndConnectedNeighbours(srcPos, originalPos, visitedPath) {
			// Mark next step as visited and recurse.
			visitedPath[pos] = true
			b.spiderMovesDFS(pos, originalPos, depth, endPos, visitedPath)
			// Reset visited next step, because the same location can be reached by different steps
			// and it should be fine.
			delete(visitedPath, pos)
		}
	}
}

// grasshopperMoves enumerates the valid moves for the Grasshopper located at the given position.
func (b *Board) grasshopperMoves(srcPos Pos) (poss []Pos) {
	poss = nil
	for direction := 0; direction < NumNeighbors; direction++ {
		steps, tgtPos := b.grasshopperNextFree(srcPos, direction)
		if steps > 1 {
			poss = append(poss, tgtPos)
		}
	}
	return
}

func (b *Board) grasshopperNextFree(srcPos Pos, direction int) (steps int, tgtPos Pos) {
	steps = 0
	for tgtPos = srcPos; b.HasPiece(tgtPos); tgtPos = tgtPos.Neighbours()[direction] {
		steps++
	}
	return
}

// antMoves enumerates the valid moves for the Ant located at the given position.
func (b *Board) antMoves(srcPos Pos) (poss []Pos) {
	// Perform a BFS to find all valid positions.
	toVisit := map[Pos]bool{srcPos: true}
	visited := map[Pos]bool{srcPos: true}
	for len(toVisit) > 0 {
		newToVisit := make(map[Pos]bool)
		for pos := range toVisit {
			for _, nextVisit := range b.EmptyAndConnectedNeighbours(pos, srcPos, visited) {
				visited[nextVisit] = true
				newToVisit[nextVisit] = true
			}
		}
		toVisit = newToVisit
	}

	// Collect all visited locations as valid moves, except the original one.
	poss = make([]Pos, 0, len(visited)-1)
	for pos := range visited {
		if pos != srcPos {
			poss = append(poss, pos)
		}
	}
	PosSort(poss)
	return
}

// beetleMoves enumerates the valid moves for the Beetle located at the given position.
func (b *Board) beetleMoves(srcPos Pos) (poss []Pos) {
	// If on top of a piece, it can move anywhere.
	if _, _, stacked := b.PieceAt(srcPos); stacked {
		return srcPos.Neighbours()
	}

	// It can move onto any other piece.
	poss = b.OccupiedNeighbours(srcPos)

	// And it moves like the queen: notice that if not moving from the top,
	// it can't squeeze between pieces either.
	for _, pos := range b.EmptyAndConnectedNeighbours(srcPos, srcPos, nil) {
		poss = append(poss, pos)
	}
	return
}

// ladybugMoves enumerates the valid moves for the Ladybug located at the given position:
// exactly two steps across the top of the hive followed by one step down onto an
// empty hex.
func (b *Board) ladybugMoves(srcPos Pos) (poss []Pos) {
	endPos := map[Pos]bool{}
	visited := map[Pos]bool{srcPos: true}
	b.ladybugMovesDFS(srcPos, srcPos, 2, visited, endPos)
	for pos := range endPos {
		poss = append(poss, pos)
	}
	PosSort(poss)
	return
}

// ladybugMovesDFS walks remainingClimbs steps over occupied neighbours (climbing across
// the hive, never stepping back onto srcPos or a hex already visited in this path), and
// once remainingClimbs reaches 0, collects the empty neighbours of the current hex as the
// final, ground-level step.
func (b *Board) ladybugMovesDFS(currentPos, srcPos Pos, remainingClimbs int, visited, endPos map[Pos]bool) {
	if remainingClimbs == 0 {
		for _, pos := range b.EmptyNeighbours(currentPos) {
			endPos[pos] = true
		}
		return
	}
	for _, pos := range b.OccupiedNeighbours(currentPos) {
		if pos == srcPos || visited[pos] {
			continue
		}
		visited[pos] = true
		b.ladybugMovesDFS(pos, srcPos, remainingClimbs-1, visited, endPos)
		delete(visited, pos)
	}
}

// movesForPieceType dispatches to the per-piece-kind move enumeration, as if a piece
// of the given kind were located at srcPos. Used by mosquitoMoves to mimic a
// neighbour's kind (addMoveActions has its own dispatch).
func (b *Board) movesForPieceType(kind PieceType, srcPos Pos) []Pos {
	switch kind {
	case QUEEN:
		return b.queenMoves(srcPos)
	case SPIDER:
		return b.spiderMoves(srcPos)
	case GRASSHOPPER:
		return b.grasshopperMoves(srcPos)
	case ANT:
		return b.antMoves(srcPos)
	case BEETLE:
		return b.beetleMoves(srcPos)
	case LADYBUG:
		return b.ladybugMoves(srcPos)
	default:
		return nil
	}
}

// mosquitoMoves enumerates the valid moves for the Mosquito located at the given position.
//
// On top of a stack it behaves exactly as a Beetle. At ground level, it takes on the
// movement of every piece kind sitting at the top of a stack on an adjacent hex
// (excluding other mosquitos, which contribute nothing): a mosquito surrounded only by
// other mosquitos has no moves.
func (b *Board) mosquitoMoves(srcPos Pos) (poss []Pos) {
	if _, _, stacked := b.PieceAt(srcPos); stacked {
		return b.beetleMoves(srcPos)
	}

	seen := make(map[Pos]bool)
	for _, neighbourPos := range b.OccupiedNeighbours(srcPos) {
		_, kind, _ := b.PieceAt(neighbourPos)
		if kind == MOSQUITO || kind == NoPiece {
			continue
		}
		for _, pos := range b.movesForPieceType(kind, srcPos) {
			if !seen[pos] {
				seen[pos] = true
				poss = append(poss, pos)
			}
		}
	}
	PosSort(poss)
	return
}
