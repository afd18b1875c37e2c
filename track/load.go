package track

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/racesim/oerror"
	"github.com/oomph-ac/racesim/physics"
	"github.com/pelletier/go-toml"
)

// File is the on-disk form of a layout. Either Oval is set, in which case the layout is
// generated, or checkpoints, walls, ground and starts are listed explicitly.
type File struct {
	Name        string           `toml:"name"`
	Oval        *OvalFile        `toml:"oval"`
	Checkpoints []CheckpointFile `toml:"checkpoints"`
	Walls       []BoxFile        `toml:"walls"`
	Ground      []BoxFile        `toml:"ground"`
	Starts      []StartFile      `toml:"starts"`
}

// OvalFile mirrors OvalOptions.
type OvalFile struct {
	Center        []float64 `toml:"center"`
	RadiusX       float64   `toml:"radius_x"`
	RadiusZ       float64   `toml:"radius_z"`
	Width         float64   `toml:"width"`
	WallHeight    float64   `toml:"wall_height"`
	WallThickness float64   `toml:"wall_thickness"`
	Segments      int       `toml:"segments"`
	SpawnHeight   float64   `toml:"spawn_height"`
}

// CheckpointFile is a single gate.
type CheckpointFile struct {
	Index    int       `toml:"index"`
	Position []float64 `toml:"position"`
	Yaw      float64   `toml:"yaw"`
	Width    float64   `toml:"width"`
	Height   float64   `toml:"height"`
}

// BoxFile is a solid box with full extents Size.
type BoxFile struct {
	Position []float64 `toml:"position"`
	Yaw      float64   `toml:"yaw"`
	Size     []float64 `toml:"size"`
}

// StartFile is a spawn pose, Rotation being euler angles in degrees.
type StartFile struct {
	Position []float64 `toml:"position"`
	Rotation []float64 `toml:"rotation"`
}

// Load reads and validates a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oerror.New("unable to read track %s: %v", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a layout from TOML.
func Parse(data []byte) (*Layout, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, oerror.New("unable to decode track: %v", err)
	}
	l, err := f.Layout()
	if err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Layout builds the geometry described by the file.
func (f File) Layout() (*Layout, error) {
	if f.Oval != nil {
		o := DefaultOvalOptions()
		o.Name = f.Name
		if f.Oval.Center != nil {
			center, err := vec3(f.Oval.Center)
			if err != nil {
				return nil, oerror.New("oval center: %v", err)
			}
			o.Center = center
		}
		setIfPositive(&o.RadiusX, f.Oval.RadiusX)
		setIfPositive(&o.RadiusZ, f.Oval.RadiusZ)
		setIfPositive(&o.Width, f.Oval.Width)
		setIfPositive(&o.WallHeight, f.Oval.WallHeight)
		setIfPositive(&o.WallThickness, f.Oval.WallThickness)
		setIfPositive(&o.SpawnHeight, f.Oval.SpawnHeight)
		if f.Oval.Segments > 0 {
			o.Segments = f.Oval.Segments
		}
		return Oval(o), nil
	}

	l := &Layout{Name: f.Name}
	for i, cp := range f.Checkpoints {
		pos, err := vec3(cp.Position)
		if err != nil {
			return nil, oerror.New("checkpoint #%d position: %v", i, err)
		}
		l.AddCheckpoint(cp.Index, physics.NewPose(pos, float32(cp.Yaw)), float32(cp.Width), float32(cp.Height))
	}
	l.SortCheckpoints()

	for i, w := range f.Walls {
		pose, size, err := w.box()
		if err != nil {
			return nil, oerror.New("wall #%d: %v", i, err)
		}
		l.AddWall(pose, size)
	}
	for i, g := range f.Ground {
		pose, size, err := g.box()
		if err != nil {
			return nil, oerror.New("ground #%d: %v", i, err)
		}
		l.AddGround(pose, size)
	}
	for i, s := range f.Starts {
		pos, err := vec3(s.Position)
		if err != nil {
			return nil, oerror.New("start #%d position: %v", i, err)
		}
		var rot mgl32.Vec3
		if s.Rotation != nil {
			if rot, err = vec3(s.Rotation); err != nil {
				return nil, oerror.New("start #%d rotation: %v", i, err)
			}
		}
		l.Starts = append(l.Starts, Start{Position: pos, Rotation: rot})
	}
	return l, nil
}

func (b BoxFile) box() (physics.Pose, mgl32.Vec3, error) {
	pos, err := vec3(b.Position)
	if err != nil {
		return physics.Pose{}, mgl32.Vec3{}, err
	}
	size, err := vec3(b.Size)
	if err != nil {
		return physics.Pose{}, mgl32.Vec3{}, err
	}
	return physics.NewPose(pos, float32(b.Yaw)), size, nil
}

func vec3(v []float64) (mgl32.Vec3, error) {
	if len(v) != 3 {
		return mgl32.Vec3{}, oerror.New("expected 3 components, got %d", len(v))
	}
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}, nil
}

func setIfPositive(dst *float32, v float64) {
	if v > 0 {
		*dst = float32(v)
	}
}
