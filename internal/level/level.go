package level

import (
	"fmt"
	"os"

	"github.com/Versifine/stride/internal/physics"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

type Level struct {
	Name string
	// Spawn is the foot position of the player at start.
	Spawn     mgl64.Vec3
	Obstacles []physics.Obstacle
}

type levelFile struct {
	Name      string         `yaml:"name"`
	Spawn     []float64      `yaml:"spawn"`
	Obstacles []obstacleFile `yaml:"obstacles"`
}

type obstacleFile struct {
	Name   string    `yaml:"name"`
	Center []float64 `yaml:"center"`
	Size   []float64 `yaml:"size"`
}

const (
	arenaHalfExtent    = 10.0
	arenaWallHeight    = 5.0
	arenaWallThickness = 0.5
)

// Arena is the demo level: four walls enclosing a 20x20 floor. The floor
// itself is not an obstacle.
func Arena() *Level {
	span := arenaHalfExtent * 2
	y := arenaWallHeight / 2
	alongX := mgl64.Vec3{span, arenaWallHeight, arenaWallThickness}
	alongZ := mgl64.Vec3{arenaWallThickness, arenaWallHeight, span}

	return &Level{
		Name: "arena",
		Obstacles: []physics.Obstacle{
			{Name: "wall-north", Bounds: physics.AABBFromCenter(mgl64.Vec3{0, y, -arenaHalfExtent}, alongX)},
			{Name: "wall-south", Bounds: physics.AABBFromCenter(mgl64.Vec3{0, y, arenaHalfExtent}, alongX)},
			{Name: "wall-west", Bounds: physics.AABBFromCenter(mgl64.Vec3{-arenaHalfExtent, y, 0}, alongZ)},
			{Name: "wall-east", Bounds: physics.AABBFromCenter(mgl64.Vec3{arenaHalfExtent, y, 0}, alongZ)},
		},
	}
}

func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lvl, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", path, err)
	}
	return lvl, nil
}

func Parse(data []byte) (*Level, error) {
	var raw levelFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	lvl := &Level{Name: raw.Name}
	if len(raw.Spawn) > 0 {
		spawn, err := toVec3(raw.Spawn)
		if err != nil {
			return nil, fmt.Errorf("%w: spawn: %w", ErrInvalidLevel, err)
		}
		lvl.Spawn = spawn
	}

	lvl.Obstacles = make([]physics.Obstacle, 0, len(raw.Obstacles))
	for i, o := range raw.Obstacles {
		name := o.Name
		if name == "" {
			name = fmt.Sprintf("obstacle-%d", i)
		}
		center, err := toVec3(o.Center)
		if err != nil {
			return nil, fmt.Errorf("%w: %s center: %w", ErrInvalidLevel, name, err)
		}
		size, err := toVec3(o.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: %s size: %w", ErrInvalidLevel, name, err)
		}
		if size.X() < 0 || size.Y() < 0 || size.Z() < 0 {
			return nil, fmt.Errorf("%w: %s has negative size %v", ErrInvalidLevel, name, size)
		}
		lvl.Obstacles = append(lvl.Obstacles, physics.Obstacle{
			Name:   name,
			Bounds: physics.AABBFromCenter(center, size),
		})
	}

	return lvl, nil
}

func toVec3(v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("%w, got %d", ErrInvalidVector, len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
