package component

// Hitbox is an offensive AABB relative to the entity position. Harmful marks
// it lethal on contact.
type Hitbox struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
	Harmful bool
}

var HitboxComponent = NewComponent[Hitbox]()
