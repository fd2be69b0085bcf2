package pathfinder

import (
	"container/heap"

	"github.com/pefman/hex-tactics/internal/hexgrid"
)

// searchNode is one tentative arrival at a tile.
type searchNode struct {
	coordinate        hexgrid.HexCoordinate
	parent            *searchNode
	numberOfActions   int
	movementRemaining int
	totalCost         int
	seq               int
	index             int
}

// better orders arrivals: fewer move actions, then more movement left in the
// current action, then lower total cost, then earlier discovery.
func (n *searchNode) better(o *searchNode) bool {
	if n.numberOfActions != o.numberOfActions {
		return n.numberOfActions < o.numberOfActions
	}
	if n.movementRemaining != o.movementRemaining {
		return n.movementRemaining > o.movementRemaining
	}
	if n.totalCost != o.totalCost {
		return n.totalCost < o.totalCost
	}
	return n.seq < o.seq
}

// nodeQueue is a min-heap of search nodes.
type nodeQueue []*searchNode

func (pq nodeQueue) Len() int { return len(pq) }

func (pq nodeQueue) Less(i, j int) bool { return pq[i].better(pq[j]) }

func (pq nodeQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *nodeQueue) Push(x interface{}) {
	n := len(*pq)
	item := x.(*searchNode)
	item.index = n
	*pq = append(*pq, item)
}

func (pq *nodeQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[0 : n-1]
	return item
}

func (pq *nodeQueue) push(n *searchNode) { heap.Push(pq, n) }

func (pq *nodeQueue) pop() *searchNode { return heap.Pop(pq).(*searchNode) }
