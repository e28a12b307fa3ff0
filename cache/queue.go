package cache

// queueNode is a node in the insertion-order list.
// It stores the key for O(1) deletion from the parent map.
type queueNode[K comparable] struct {
	key  K
	prev *queueNode[K]
	next *queueNode[K]
}

// queue is a doubly-linked list of keys in insertion order.
// The head is the newest entry, the tail the oldest.
type queue[K comparable] struct {
	head *queueNode[K]
	tail *queueNode[K]
	len  int
}

// PushFront adds key as the newest entry and returns its node.
func (q *queue[K]) PushFront(key K) *queueNode[K] {
	node := &queueNode[K]{key: key}
	if q.head == nil {
		q.head = node
		q.tail = node
	} else {
		node.next = q.head
		q.head.prev = node
		q.head = node
	}
	q.len++
	return node
}

// Remove unlinks node from the queue.
func (q *queue[K]) Remove(node *queueNode[K]) {
	if node == nil {
		return
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		q.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		q.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	q.len--
}

// Oldest returns the oldest node, or nil when the queue is empty.
func (q *queue[K]) Oldest() *queueNode[K] {
	return q.tail
}

// Clear drops every node.
func (q *queue[K]) Clear() {
	q.head = nil
	q.tail = nil
	q.len = 0
}
