package track

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/game"
	"github.com/oomph-ac/racesim/physics"
)

// OvalOptions describe an elliptical track around Center.
type OvalOptions struct {
	Name          string
	Center        mgl32.Vec3
	RadiusX       float32
	RadiusZ       float32
	Width         float32
	WallHeight    float32
	WallThickness float32
	// Segments is the number of wall boxes on each side of the track.
	Segments int
	// SpawnHeight is the height above the track surface of the start pose.
	SpawnHeight float32
}

// DefaultOvalOptions ...
func DefaultOvalOptions() OvalOptions {
	return OvalOptions{
		Name:          "oval",
		RadiusX:       60,
		RadiusZ:       40,
		Width:         10,
		WallHeight:    2,
		WallThickness: 0.5,
		Segments:      160,
		SpawnHeight:   0.5,
	}
}

// Oval builds an elliptical layout with CheckpointCount evenly spaced gates, walls on both sides,
// a ground slab and a single start pose half a gate before checkpoint 0.
func Oval(o OvalOptions) *Layout {
	o.RadiusX = math32.Max(o.RadiusX, 1)
	o.RadiusZ = math32.Max(o.RadiusZ, 1)
	o.Width = math32.Max(o.Width, 1)
	o.WallHeight = math32.Max(o.WallHeight, 0.1)
	o.WallThickness = math32.Max(o.WallThickness, 0.05)
	o.Segments = max(o.Segments, 8)

	l := &Layout{Name: o.Name}

	point := func(t float32) mgl32.Vec3 {
		return o.Center.Add(mgl32.Vec3{o.RadiusX * math32.Sin(t), 0, o.RadiusZ * math32.Cos(t)})
	}
	yaw := func(t float32) float32 {
		return game.YawOf(mgl32.Vec3{o.RadiusX * math32.Cos(t), 0, -o.RadiusZ * math32.Sin(t)})
	}

	l.AddGround(
		physics.NewPose(o.Center.Sub(mgl32.Vec3{0, 0.5, 0}), 0),
		mgl32.Vec3{2 * (o.RadiusX + o.Width + 10), 1, 2 * (o.RadiusZ + o.Width + 10)},
	)

	for i := range CheckpointCount {
		t := 2 * math32.Pi * (float32(i) + 0.5) / CheckpointCount
		pos := point(t).Add(mgl32.Vec3{0, o.WallHeight / 2, 0})
		l.AddCheckpoint(i, physics.NewPose(pos, yaw(t)-checkpointYawOffset), o.Width, o.WallHeight)
	}

	offset := o.Width/2 + o.WallThickness/2
	for j := range o.Segments {
		t0 := 2 * math32.Pi * float32(j) / float32(o.Segments)
		t1 := 2 * math32.Pi * float32(j+1) / float32(o.Segments)
		for _, side := range [2]float32{-1, 1} {
			q0 := point(t0).Add(game.YawQuat(yaw(t0)).Rotate(game.Right).Mul(side * offset))
			q1 := point(t1).Add(game.YawQuat(yaw(t1)).Rotate(game.Right).Mul(side * offset))
			span := q1.Sub(q0)
			center := q0.Add(span.Mul(0.5)).Add(mgl32.Vec3{0, o.WallHeight / 2, 0})
			l.AddWall(
				physics.NewPose(center, game.YawOf(span)),
				mgl32.Vec3{o.WallThickness, o.WallHeight, span.Len() + 0.1},
			)
		}
	}

	start := point(0)
	start[1] += o.SpawnHeight
	l.Starts = append(l.Starts, Start{Position: start, Rotation: mgl32.Vec3{0, yaw(0), 0}})
	return l
}
