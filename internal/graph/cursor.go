package graph

// Cursor 单次使用、只进不退的游标。耗尽后永远返回零值和 false。
// 非并发安全，同一时刻只能有一个消费者。
type Cursor[T any] struct {
	items []T
	pos   int
}

// NewCursor 创建游标
func NewCursor[T any](items []T) *Cursor[T] {
	return &Cursor[T]{items: items}
}

// Next 返回下一个元素
func (c *Cursor[T]) Next() (T, bool) {
	var zero T
	if c.pos >= len(c.items) {
		c.items = nil
		return zero, false
	}
	item := c.items[c.pos]
	c.pos++
	return item, true
}

// Exhausted 游标是否已耗尽
func (c *Cursor[T]) Exhausted() bool {
	return c.pos >= len(c.items)
}
