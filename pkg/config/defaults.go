package config

// Default returns the spaceship story: the ship drifts across the screen
// over three sections while the wireframe pane rises over the shaded one
// and then hands the screen back.
func Default() *Config {
	return &Config{
		Models: []Model{
			{Name: "spaceship", Path: "models/spaceship.glb", Scale: [3]float64{0.25, 0.25, 0.25}},
		},
		Actors: []Actor{
			{Name: "spaceship", Position: [3]float64{0.3, 0, 0}},
		},
		Camera: Camera{FOV: 70, Near: 0.01, Far: 10, Position: [3]float64{0, 0, 1}},
		Lights: Lights{
			Ambient: 0.8,
			Points: []Point{
				{Position: [3]float64{20, 20, 20}, Intensity: 0.8},
				{Position: [3]float64{-20, -20, 20}, Intensity: 0.8},
			},
		},
		Wireframe:  Wireframe{Color: RGB{70, 130, 180}},
		Views:      []View{{Name: "real", Height: 1}, {Name: "wire"}},
		Background: RGB{30, 30, 40},
		Scroll:     Scroll{Pages: 4, Scrub: 0.1, FPS: 60, Step: 3},
		Timeline: Timeline{
			Duration: 1,
			Ease:     "power2.inOut",
			Tweens: []Tween{
				{At: 0, To: map[string]float64{"spaceship.position.x": -0.5}},
				{At: 0, To: map[string]float64{"spaceship.rotation.y": 1}},

				{At: 1, To: map[string]float64{"spaceship.position.y": -0.1, "spaceship.position.x": 0.5}},
				{At: 1, To: map[string]float64{"spaceship.rotation.x": 1.5}},
				{At: 1, Ease: "linear", To: map[string]float64{"views.wire.height": 1}},
				{At: 1, Ease: "linear", To: map[string]float64{"views.real.bottom": 0}},

				{At: 2, To: map[string]float64{"spaceship.position.x": -0.5}},
				{At: 2, To: map[string]float64{"spaceship.rotation.y": -1, "spaceship.rotation.z": 1}},
				{At: 2, Ease: "linear", To: map[string]float64{"views.real.bottom": 0, "views.real.height": 1}},
				{At: 2, Ease: "linear", To: map[string]float64{"views.wire.height": 0, "views.wire.bottom": 1}},
			},
		},
	}
}
