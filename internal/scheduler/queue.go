package scheduler

import (
	"time"

	"github.com/osse101/ThrowBot_Go/internal/domain"
)

// entry is a timer rule waiting for its next due instant
type entry struct {
	rule domain.Rule
	due  time.Time
}

// entryQueue is a min-heap on due, ties broken by rule order
type entryQueue []*entry

func (q entryQueue) Len() int { return len(q) }

func (q entryQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].rule.Order < q[j].rule.Order
	}
	return q[i].due.Before(q[j].due)
}

func (q entryQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *entryQueue) Push(x any) { *q = append(*q, x.(*entry)) }

func (q *entryQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

func (q entryQueue) peek() *entry {
	if len(q) == 0 {
		return nil
	}
	return q[0]
}
