package pq

import "testing"

func TestPriorityOrder(t *testing.T) {
	rank := map[string]int{"a": 3, "b": 1, "c": 2, "d": 5}
	q := Empty(func(x, y string) bool { return rank[x] > rank[y] })

	for _, x := range []string{"b", "a", "d", "c", "a", "d"} {
		q.Add(x)
	}

	if q.Len() != 4 {
		t.Errorf("queue holds %d elements, expected 4", q.Len())
	}

	expected := []string{"d", "a", "c", "b"}
	for _, exp := range expected {
		if q.IsEmpty() {
			t.Fatalf("queue is empty, expected %s", exp)
		}
		if got := q.GetNext(); got != exp {
			t.Errorf("GetNext() = %s, expected %s", got, exp)
		}
	}

	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
}

func TestReAddAfterPop(t *testing.T) {
	q := Empty(func(x, y int) bool { return x < y })
	q.Add(2)
	q.Add(1)

	if got := q.GetNext(); got != 1 {
		t.Errorf("GetNext() = %d, expected 1", got)
	}
	if q.Contains(1) {
		t.Error("popped element is still pending")
	}

	q.Add(1)
	if got := q.GetNext(); got != 1 {
		t.Errorf("GetNext() = %d after re-adding, expected 1", got)
	}
}
