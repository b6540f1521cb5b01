package depot

import "github.com/rotisserie/eris"

var _ Cache[string, any] = &SimpleCache[string, any]{}

func (c *SimpleCache[K, T]) GetIndex(key K) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[K, T]) GetItem(index int) *T {
	item := &c.items[index]
	return item
}

func (c *SimpleCache[K, T]) Register(key K, item T) (int, error) {
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, eris.Errorf("cache at maximum capacity (%d)", c.maxCapacity)
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.items = append(c.items, item)

	return idx, nil
}

func (c *SimpleCache[K, T]) Len() int {
	return len(c.items)
}

func (c *SimpleCache[K, T]) Clear() {
	c.items = make([]T, 0, c.maxCapacity)
	c.itemIndices = make(map[K]int)
}
