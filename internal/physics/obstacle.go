package physics

// Obstacle is a piece of static level geometry. Obstacles never move while
// the simulation runs.
type Obstacle struct {
	Name   string
	Bounds AABB
}

// ObstacleSet hands the collision query the obstacles worth testing.
// Near must return every obstacle whose bounds touch region (extra ones are
// fine) in a stable level order, since that order breaks ties between
// equally distant contacts.
type ObstacleSet interface {
	Near(region AABB) []*Obstacle
}

// Obstacles is the linear-scan ObstacleSet: every obstacle is a candidate.
type Obstacles []Obstacle

func (o Obstacles) Near(AABB) []*Obstacle {
	out := make([]*Obstacle, len(o))
	for i := range o {
		out[i] = &o[i]
	}
	return out
}
