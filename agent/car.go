package agent

import (
	"github.com/oomph-ac/racesim/physics"
	"github.com/oomph-ac/racesim/trackstate"
	"github.com/oomph-ac/racesim/vehicle"
	"github.com/oomph-ac/racesim/vision"
)

// Car is a spawned car with its sensors and its controller.
type Car struct {
	Body       *physics.Body
	Controller *vehicle.Controller
	Scanner    *vision.Scanner
	Holder     *trackstate.Holder
}

func newCar(w physics.World, pose physics.Pose, opts Options) *Car {
	body := physics.NewBody(pose, opts.CarMass, opts.CarRadius)
	body.Gravity = opts.Gravity
	scanner := vision.NewScanner(w, opts.Vision)
	return &Car{
		Body:       body,
		Controller: vehicle.NewController(body, w, opts.Vehicle),
		Scanner:    scanner,
		Holder:     trackstate.NewHolder(scanner, body, opts.TrackState),
	}
}
