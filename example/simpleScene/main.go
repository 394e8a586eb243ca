package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/akmonengine/impulse"
	"github.com/akmonengine/impulse/actor"
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	dt = 1.0 / 60.0
	// world meters per terminal cell, cells are about twice as high as wide
	cellWidth  = 0.25
	cellHeight = 0.5
	// minimum delay between two impact clicks
	clickCooldown = 60 * time.Millisecond
)

type Scene struct {
	screen        tcell.Screen
	width, height int

	config Config
	world  *impulse.World
	ground *actor.RigidBody

	audioInit bool
	lastClick time.Time
}

func NewScene(config Config) (*Scene, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	if err := screen.Init(); err != nil {
		return nil, err
	}

	s := &Scene{
		screen: screen,
		config: config,
	}
	s.width, s.height = screen.Size()

	if config.Sound {
		if err := s.initAudio(); err != nil {
			// Non-fatal, the scene can run without sound
			log.Printf("Audio initialization failed: %v", err)
		}
	}

	s.reset()

	return s, nil
}

func (s *Scene) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		s.audioInit = true
	}
	return err
}

func (s *Scene) playClick() {
	if !s.audioInit || time.Since(s.lastClick) < clickCooldown {
		return
	}
	s.lastClick = time.Now()

	sampleRate := beep.SampleRate(44100)
	sine, err := generators.SineTone(sampleRate, 880)
	if err != nil {
		return
	}

	speaker.Play(beep.Take(sampleRate.N(20*time.Millisecond), sine))
}

// reset builds a fresh world: a ground, two walls, and falling boxes and balls
func (s *Scene) reset() {
	s.world = impulse.NewWorld(mgl64.Vec2{0, s.config.Gravity})
	s.world.VelocityIterations = s.config.VelocityIterations
	s.world.PositionIterations = s.config.PositionIterations
	s.world.Workers = s.config.Workers

	halfWidth := float64(s.width) * cellWidth / 2.0

	s.ground = actor.NewRigidBody(actor.NewTransform(mgl64.Vec2{0, 0}, 0), actor.BodyTypeStatic)
	s.ground.CreateFixture(actor.NewOrientedBox(halfWidth, 0.5, mgl64.Vec2{0, -0.5}, 0), 0)
	s.ground.CreateFixture(actor.NewOrientedBox(0.5, 20, mgl64.Vec2{-halfWidth + 0.5, 20}, 0), 0)
	s.ground.CreateFixture(actor.NewOrientedBox(0.5, 20, mgl64.Vec2{halfWidth - 0.5, 20}, 0), 0)
	s.world.AddBody(s.ground)

	for range s.config.Bodies {
		s.drop()
	}

	s.world.Events.Subscribe(impulse.COLLISION_ENTER, func(event impulse.Event) {
		s.playClick()
	})
}

// drop adds a random box or ball above the ground
func (s *Scene) drop() {
	halfWidth := float64(s.width)*cellWidth/2.0 - 2.0
	top := float64(s.height) * cellHeight

	position := mgl64.Vec2{(rand.Float64()*2 - 1) * halfWidth, top*0.5 + rand.Float64()*top*0.5}
	body := actor.NewRigidBody(actor.NewTransform(position, rand.Float64()*math.Pi), actor.BodyTypeDynamic)

	var fixture *actor.Fixture
	if rand.Intn(2) == 0 {
		fixture = body.CreateFixture(actor.NewBox(0.5+rand.Float64(), 0.5+rand.Float64()*0.5), 1.0)
	} else {
		fixture = body.CreateFixture(&actor.Circle{Radius: 0.5 + rand.Float64()*0.5}, 1.0)
	}
	fixture.SetFriction(0.6)
	fixture.SetRestitution(rand.Float64() * 0.5)

	s.world.AddBody(body)
}

// toWorld returns the world point at the center of a cell, y pointing up
func (s *Scene) toWorld(x, y int) mgl64.Vec2 {
	cx := float64(x) - float64(s.width)/2.0 + 0.5
	cy := float64(s.height-y) - 0.5

	return mgl64.Vec2{cx * cellWidth, cy*cellHeight - 1.0}
}

func contains(fixture *actor.Fixture, point mgl64.Vec2) bool {
	local := fixture.GetBody().GetTransform().ApplyInverse(point)

	switch shape := fixture.GetShape().(type) {
	case *actor.Circle:
		return actor.DistanceSquared(local, shape.Position) <= shape.Radius*shape.Radius
	case *actor.Polygon:
		for i, v := range shape.Vertices {
			if shape.Normals[i].Dot(local.Sub(v)) > 0 {
				return false
			}
		}
		return true
	}

	return false
}

func (s *Scene) draw() {
	s.screen.Clear()

	for _, body := range s.world.Bodies {
		style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
		char := '#'
		switch {
		case body.BodyType == actor.BodyTypeStatic:
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		case body.IsSleeping:
			style = tcell.StyleDefault.Foreground(tcell.ColorBlue)
			char = '+'
		}

		for _, fixture := range body.Fixtures {
			aabb := fixture.GetAABB()
			for y := 0; y < s.height; y++ {
				for x := 0; x < s.width; x++ {
					p := s.toWorld(x, y)
					if !aabb.ContainsPoint(p) || !contains(fixture, p) {
						continue
					}
					s.screen.SetContent(x, y, char, nil, style)
				}
			}
		}
	}

	stats := s.world.SolverStats()
	status := fmt.Sprintf(" bodies: %d  contacts: %d  fallbacks: %d/%d  [space] drop  [r] reset  [q] quit ",
		len(s.world.Bodies), len(s.world.Contacts()), stats.IllConditioned, stats.BlockSolverMisses)
	for i, r := range status {
		s.screen.SetContent(i, 0, r, nil, tcell.StyleDefault.Reverse(true))
	}

	s.screen.Show()
}

func (s *Scene) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
			return false
		case ev.Rune() == ' ':
			s.drop()
		case ev.Rune() == 'r':
			s.reset()
		}

	case *tcell.EventResize:
		s.width, s.height = s.screen.Size()
		s.screen.Sync()
	}

	return true
}

func (s *Scene) run() {
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- s.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !s.handleInput(ev) {
				return
			}

		case <-ticker.C:
			s.world.Step(dt)
			s.draw()
		}
	}
}

func (s *Scene) cleanup() {
	if s.audioInit {
		speaker.Close()
	}
	s.screen.Fini()
}

func main() {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	scene, err := NewScene(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer scene.cleanup()

	scene.run()
}
