package deque

import (
	"sync"

	"enginecycle/model"
)

type ListDeque struct {
	mu   sync.RWMutex
	head *node
	tail *node

	size     int
	capacity int
}

type node struct {
	val  *model.Trace
	pre  *node
	next *node
}

// 工厂方法
func NewListDeque(capacity int) *ListDeque {
	head := &node{}
	tail := &node{}
	head.next = tail
	tail.pre = head

	return &ListDeque{
		head:     head,
		tail:     tail,
		capacity: capacity,
	}
}

func (ld *ListDeque) Size() int {
	ld.mu.RLock()
	defer ld.mu.RUnlock()
	return ld.size
}

func (ld *ListDeque) Get(i int) *model.Trace {
	ld.mu.RLock()
	defer ld.mu.RUnlock()
	if i < 0 || i >= ld.size {
		panic("index out of length")
	}
	iter := ld.head.next
	for j := 0; j < i; j++ {
		iter = iter.next
	}
	return iter.val
}

func (ld *ListDeque) Traverse(f func(i int, item *model.Trace)) {
	ld.mu.RLock()
	defer ld.mu.RUnlock()
	i := 0
	for iter := ld.head.next; iter != ld.tail; iter = iter.next {
		f(i, iter.val)
		i++
	}
}

func (ld *ListDeque) AddLast(item *model.Trace) {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	if ld.isFull() {
		return
	}
	newNode := &node{
		val: item,
	}
	tmp := ld.tail.pre
	ld.tail.pre = newNode
	newNode.next = ld.tail
	newNode.pre = tmp
	tmp.next = newNode
	ld.size++
}

func (ld *ListDeque) RemoveLast() *model.Trace {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	return ld.removeLast()
}

func (ld *ListDeque) removeLast() *model.Trace {
	if ld.size == 0 {
		return nil
	}
	last := ld.tail.pre
	ld.tail.pre = last.pre
	ld.tail.pre.next = ld.tail
	ld.size--
	return last.val
}

func (ld *ListDeque) AddFirst(item *model.Trace) {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	ld.addFirst(item)
}

func (ld *ListDeque) addFirst(item *model.Trace) {
	if ld.isFull() {
		return
	}
	newNode := &node{
		val: item,
	}
	tmp := ld.head.next
	ld.head.next = newNode
	newNode.pre = ld.head
	newNode.next = tmp
	tmp.pre = newNode
	ld.size++
}

func (ld *ListDeque) RemoveFirst() *model.Trace {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	if ld.size == 0 {
		return nil
	}
	first := ld.head.next
	ld.head.next = first.next
	ld.head.next.pre = ld.head
	ld.size--
	return first.val
}

func (ld *ListDeque) Push(item *model.Trace) {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	if ld.capacity <= 0 {
		return
	}
	if ld.isFull() {
		ld.removeLast()
	}
	ld.addFirst(item)
}

func (ld *ListDeque) IsFull() bool {
	ld.mu.RLock()
	defer ld.mu.RUnlock()
	return ld.isFull()
}

func (ld *ListDeque) isFull() bool {
	return ld.size == ld.capacity
}

func (ld *ListDeque) IsEmpty() bool {
	return ld.Size() == 0
}
