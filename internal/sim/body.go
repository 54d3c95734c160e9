package sim

// BodyID is a stable handle into the body arena. IDs are never reused within
// a simulation's lifetime.
type BodyID uint64

// Category partitions bodies for the pairwise collision rules.
type Category uint8

const (
	CategoryPlayer Category = iota
	CategoryPolice
	CategoryTraffic
)

func (c Category) String() string {
	switch c {
	case CategoryPlayer:
		return "player"
	case CategoryPolice:
		return "police"
	case CategoryTraffic:
		return "traffic"
	}
	return "unknown"
}

// BodyMode tags how a body responds to impulses. Speed-driven bodies derive
// velocity from heading and scalar speed each tick; kinematic bodies carry an
// authored velocity (post-impact traffic, scripted recovery).
type BodyMode uint8

const (
	ModeSpeedDriven BodyMode = iota
	ModeKinematic
)

// Body is one vehicle on the simulation plane.
type Body struct {
	ID       BodyID
	Category Category
	Mode     BodyMode

	Pos           Vec2
	Vel           Vec2
	Speed         float64
	TargetSpeed   float64
	Heading       float64 // radians, 0 = +Z
	TargetHeading float64

	HalfWidth  float64 // half extent across the hull
	HalfLength float64 // half extent along the hull
	Mass       float64
}

// Velocity returns the body's effective velocity regardless of mode.
func (b *Body) Velocity() Vec2 {
	if b.Mode == ModeKinematic {
		return b.Vel
	}
	return headingVector(b.Heading).Scale(b.Speed)
}

type aabb struct {
	minX, maxX float64
	minZ, maxZ float64
}

func (a aabb) overlaps(b aabb) bool {
	return a.minX < b.maxX && a.maxX > b.minX &&
		a.minZ < b.maxZ && a.maxZ > b.minZ
}

// bounds returns the body's axis-aligned box, padded by margin. The box uses
// the larger half extent on both axes; hull orientation is deliberately
// ignored so the test stays a cheap 2D separating-axis check.
func (b *Body) bounds(margin float64) aabb {
	half := b.HalfWidth
	if b.HalfLength > half {
		half = b.HalfLength
	}
	half += margin
	return aabb{
		minX: b.Pos.X - half,
		maxX: b.Pos.X + half,
		minZ: b.Pos.Z - half,
		maxZ: b.Pos.Z + half,
	}
}

// bodyArena owns every live body. Inserts and removals queue until commit,
// which runs between ticks so no AI or collision pass ever observes a
// mid-pass mutation of the active list.
type bodyArena struct {
	active        []*Body
	byID          map[BodyID]*Body
	nextID        BodyID
	pendingInsert []*Body
	pendingRemove []BodyID
}

func newBodyArena() *bodyArena {
	return &bodyArena{byID: make(map[BodyID]*Body)}
}

// Insert queues a body for activation at the next commit and assigns its ID
// immediately so callers can reference it.
func (a *bodyArena) Insert(b *Body) BodyID {
	a.nextID++
	b.ID = a.nextID
	a.pendingInsert = append(a.pendingInsert, b)
	return b.ID
}

// Remove queues a body for removal at the next commit.
func (a *bodyArena) Remove(id BodyID) {
	a.pendingRemove = append(a.pendingRemove, id)
}

func (a *bodyArena) commit() {
	for _, b := range a.pendingInsert {
		a.byID[b.ID] = b
		a.active = append(a.active, b)
	}
	a.pendingInsert = a.pendingInsert[:0]

	for _, id := range a.pendingRemove {
		if _, ok := a.byID[id]; !ok {
			continue
		}
		delete(a.byID, id)
		for i, b := range a.active {
			if b.ID == id {
				a.active[i] = a.active[len(a.active)-1]
				a.active = a.active[:len(a.active)-1]
				break
			}
		}
	}
	a.pendingRemove = a.pendingRemove[:0]
}

func (a *bodyArena) get(id BodyID) *Body {
	return a.byID[id]
}

func (a *bodyArena) count(c Category) int {
	n := 0
	for _, b := range a.active {
		if b.Category == c {
			n++
		}
	}
	return n
}
