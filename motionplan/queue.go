package motionplan

import (
	"container/heap"

	"go.viam.com/navsim/gridmap"
)

type queueItem struct {
	node gridmap.Node
	f    float64
	g    float64
	seq  int
}

// openList is a min-heap on f with insertion order breaking ties.
type openList struct {
	items []queueItem
	next  int
}

func (o *openList) Len() int { return len(o.items) }

func (o *openList) Less(i, j int) bool {
	if o.items[i].f != o.items[j].f {
		return o.items[i].f < o.items[j].f
	}
	return o.items[i].seq < o.items[j].seq
}

func (o *openList) Swap(i, j int) { o.items[i], o.items[j] = o.items[j], o.items[i] }

func (o *openList) Push(x any) { o.items = append(o.items, x.(queueItem)) }

func (o *openList) Pop() any {
	last := o.items[len(o.items)-1]
	o.items = o.items[:len(o.items)-1]
	return last
}

func (o *openList) push(node gridmap.Node, g, f float64) {
	heap.Push(o, queueItem{node: node, f: f, g: g, seq: o.next})
	o.next++
}

func (o *openList) pop() queueItem {
	return heap.Pop(o).(queueItem)
}
