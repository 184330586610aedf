package tree

import "slices"

// Classes is the ordered set of style class tags on a node. The styling
// engine reads it; the lifecycle core never interprets the tags. It may be
// changed at any time.
type Classes struct {
	items []string
}

// Len returns the number of classes.
func (c *Classes) Len() int {
	return len(c.items)
}

// Items returns a copy of the classes in insertion order.
func (c *Classes) Items() []string {
	return slices.Clone(c.items)
}

// Contains reports whether class is present.
func (c *Classes) Contains(class string) bool {
	return slices.Contains(c.items, class)
}

// Add appends each class that is not already present. Empty names are ignored.
func (c *Classes) Add(classes ...string) {
	for _, class := range classes {
		if class == "" || c.Contains(class) {
			continue
		}
		c.items = append(c.items, class)
	}
}

// Remove deletes each given class and reports whether any was present.
func (c *Classes) Remove(classes ...string) bool {
	before := len(c.items)
	c.items = slices.DeleteFunc(c.items, func(item string) bool {
		return slices.Contains(classes, item)
	})
	return len(c.items) != before
}

// Toggle adds class when absent and removes it when present. It returns
// whether the class is present afterwards.
func (c *Classes) Toggle(class string) bool {
	if c.Remove(class) {
		return false
	}
	c.Add(class)
	return c.Contains(class)
}

// Set replaces the whole set.
func (c *Classes) Set(classes ...string) {
	c.items = nil
	c.Add(classes...)
}
