package depot

// Next advances to the next matching entity. The first call opens a pass and
// blocks the iterator's pools; the pass closes itself once it runs out, after
// which Next starts a fresh pass.
func (c *Cursor) Next() bool {
	if !c.open {
		c.it.AddBlocker(1)
		c.open = true
		c.driver, c.index = c.it.MinPool()
	}
	for c.index > 0 {
		c.index--
		entities := c.driver.Entities()
		if c.index >= len(entities) {
			continue
		}
		if e := entities[c.index]; c.it.matches(e) {
			c.current = e
			return true
		}
	}
	c.Close()
	return false
}

// Entity returns the entity the last successful Next stopped on.
func (c *Cursor) Entity() Entity {
	return c.current
}

// Close ends the pass early and releases the pools. Closing twice is a no-op.
func (c *Cursor) Close() {
	if !c.open {
		return
	}
	c.open = false
	c.driver = nil
	c.index = 0
	c.current = Entity{}
	c.it.AddBlocker(-1)
}

func (c *Cursor) Open() bool {
	return c.open
}
