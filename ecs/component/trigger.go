package component

import "slices"

// Trigger is an axis-aligned volume relative to the entity Transform.
type Trigger struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
}

var TriggerComponent = NewComponent[Trigger]()

// TriggerContacts lists the controllers that entered, stayed in or exited
// a Trigger during the current step. Entity ids are ecs.Entity values.
type TriggerContacts struct {
	Entered []uint64
	Stayed  []uint64
	Exited  []uint64

	inside map[uint64]struct{}
}

var TriggerContactsComponent = NewComponent[TriggerContacts]()

// Observe records which entities overlap this step and derives the
// enter/stay/exit lists from the previous step.
func (c *TriggerContacts) Observe(overlapping []uint64) {
	c.Entered = c.Entered[:0]
	c.Stayed = c.Stayed[:0]
	c.Exited = c.Exited[:0]

	next := make(map[uint64]struct{}, len(overlapping))
	for _, e := range overlapping {
		next[e] = struct{}{}
		if _, ok := c.inside[e]; ok {
			c.Stayed = append(c.Stayed, e)
		} else {
			c.Entered = append(c.Entered, e)
		}
	}
	for e := range c.inside {
		if _, ok := next[e]; !ok {
			c.Exited = append(c.Exited, e)
		}
	}
	slices.Sort(c.Exited)
	c.inside = next
}
