package level

import (
	"log/slog"
	"sort"

	"github.com/Versifine/stride/internal/physics"
	"github.com/dhconnelly/rtreego"
)

const (
	rtreeMinChildren = 25
	rtreeMaxChildren = 50
)

// Index is an R-tree over a level's obstacles. It satisfies
// physics.ObstacleSet and returns candidates in level order.
type Index struct {
	obstacles []physics.Obstacle
	tree      *rtreego.Rtree
}

type indexEntry struct {
	order int
	rect  rtreego.Rect
}

func (e *indexEntry) Bounds() rtreego.Rect {
	return e.rect
}

func NewIndex(obstacles []physics.Obstacle) *Index {
	idx := &Index{
		obstacles: append([]physics.Obstacle(nil), obstacles...),
		tree:      rtreego.NewTree(3, rtreeMinChildren, rtreeMaxChildren),
	}
	for i, o := range idx.obstacles {
		rect, err := toRect(o.Bounds)
		if err != nil {
			slog.Warn("Skipping obstacle with invalid bounds", "obstacle", o.Name, "error", err)
			continue
		}
		idx.tree.Insert(&indexEntry{order: i, rect: rect})
	}
	return idx
}

func (idx *Index) Near(region physics.AABB) []*physics.Obstacle {
	if idx == nil || idx.tree == nil {
		return nil
	}
	rect, err := toRect(region.Expand(physics.BroadphaseEpsilon))
	if err != nil {
		return nil
	}

	hits := idx.tree.SearchIntersect(rect)
	order := make([]int, 0, len(hits))
	for _, hit := range hits {
		order = append(order, hit.(*indexEntry).order)
	}
	sort.Ints(order)

	out := make([]*physics.Obstacle, len(order))
	for i, n := range order {
		out[i] = &idx.obstacles[n]
	}
	return out
}

func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.obstacles)
}

// Obstacles returns the indexed obstacles in level order.
func (idx *Index) Obstacles() []physics.Obstacle {
	if idx == nil {
		return nil
	}
	return idx.obstacles
}

func toRect(box physics.AABB) (rtreego.Rect, error) {
	return rtreego.NewRectFromPoints(
		rtreego.Point{box.Min.X(), box.Min.Y(), box.Min.Z()},
		rtreego.Point{box.Max.X(), box.Max.Y(), box.Max.Z()},
	)
}
