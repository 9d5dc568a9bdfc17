package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/currents/components"
)

// SpawnMode selects how particles are laid out on reset and respawn.
type SpawnMode uint8

const (
	SpawnRandom  SpawnMode = iota // uniform random cells, respawn anywhere on the face
	SpawnLattice                  // regular lattice, respawn at the original lattice point
)

// String returns the config name of the mode.
func (m SpawnMode) String() string {
	switch m {
	case SpawnRandom:
		return "random"
	case SpawnLattice:
		return "lattice"
	}
	return "unknown"
}

// ParseSpawnMode parses "random" or "lattice".
func ParseSpawnMode(s string) (SpawnMode, error) {
	switch strings.ToLower(s) {
	case "random":
		return SpawnRandom, nil
	case "lattice":
		return SpawnLattice, nil
	}
	return 0, fmt.Errorf("unknown spawn mode %q", s)
}

// VectorSampler returns the current at a grid cell.
type VectorSampler interface {
	Sample(face int, i, j float64) (u, v float64, ok bool)
}

// GeometryLookup maps grid coordinates to geographic coordinates.
type GeometryLookup interface {
	Lookup(face int, i, j float64) (lon, lat float64)
}

// Projector maps geographic coordinates to screen coordinates.
type Projector interface {
	Project(lon, lat float64) r2.Vec
}

// Options tune particle advection.
type Options struct {
	MaxMagnitude      float64 // speed that maps to normalized magnitude 1
	LifespanDecrement float64 // lifespan lost per tick
}

// DefaultOptions returns the standard advection settings.
func DefaultOptions() Options {
	return Options{MaxMagnitude: 0.05, LifespanDecrement: 0.01}
}

// Particle is a read-only snapshot of one particle.
type Particle struct {
	Face     int
	I, J     float64
	U, V, M  float64
	From, To r2.Vec
	Lifespan float64

	HasOrigin bool
	Origin    components.Origin
}

// TickStats summarizes one tick.
type TickStats struct {
	Advanced  int
	Respawned int
	NoData    int // respawns caused by leaving the field
	Expired   int // respawns caused by lifespan running out
	Binned    int

	// Speeds holds the normalized speed of every advanced particle.
	// It is reused by the next tick.
	Speeds []float64
}

// ParticleSystem advects a fixed-size particle pool through the current field.
// It is not safe for concurrent use.
type ParticleSystem struct {
	sampler   VectorSampler
	geometry  GeometryLookup
	projector Projector
	opts      Options
	rng       *rand.Rand

	mode     SpawnMode
	faces    []int
	gridSize float64
	count    int

	world         *ecs.World
	randomMapper  *ecs.Map4[components.GridPos, components.Current, components.Trail, components.Life]
	latticeMapper *ecs.Map5[components.GridPos, components.Current, components.Trail, components.Life, components.Origin]
	filter        *ecs.Filter4[components.GridPos, components.Current, components.Trail, components.Life]
	originMap     *ecs.Map1[components.Origin]

	speeds []float64
}

// NewParticleSystem returns an empty system. Call Reset to populate it.
// If rng is nil a time-seeded source is used.
func NewParticleSystem(sampler VectorSampler, geometry GeometryLookup, projector Projector, opts Options, rng *rand.Rand) (*ParticleSystem, error) {
	if sampler == nil {
		return nil, errors.New("particles: nil sampler")
	}
	if geometry == nil {
		return nil, errors.New("particles: nil geometry")
	}
	if projector == nil {
		return nil, errors.New("particles: nil projector")
	}
	if !(opts.MaxMagnitude > 0) {
		return nil, fmt.Errorf("particles: max magnitude %v must be positive", opts.MaxMagnitude)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &ParticleSystem{
		sampler:   sampler,
		geometry:  geometry,
		projector: projector,
		opts:      opts,
		rng:       rng,
	}
	s.newWorld()
	return s, nil
}

func (s *ParticleSystem) newWorld() {
	world := ecs.NewWorld()
	s.world = world
	s.randomMapper = ecs.NewMap4[
		components.GridPos,
		components.Current,
		components.Trail,
		components.Life,
	](world)
	s.latticeMapper = ecs.NewMap5[
		components.GridPos,
		components.Current,
		components.Trail,
		components.Life,
		components.Origin,
	](world)
	s.filter = ecs.NewFilter4[
		components.GridPos,
		components.Current,
		components.Trail,
		components.Life,
	](world)
	s.originMap = ecs.NewMap1[components.Origin](world)
}

// Reset discards the pool and lays out a new one.
//
// Random mode places ceil(count/len(faces)) particles per face uniformly in
// [0, gridSize). Lattice mode uses n = sqrt(count/len(faces)) rows and
// columns per face, spaced gridSize/n apart, with each particle remembering
// its lattice point.
func (s *ParticleSystem) Reset(mode SpawnMode, count int, faces []int, gridSize float64) error {
	if mode != SpawnRandom && mode != SpawnLattice {
		return fmt.Errorf("particles: unknown spawn mode %d", mode)
	}
	if len(faces) == 0 {
		return errors.New("particles: no faces")
	}
	if count < 0 {
		return fmt.Errorf("particles: negative count %d", count)
	}
	if !(gridSize > 1) {
		return fmt.Errorf("particles: grid size %v must exceed 1", gridSize)
	}
	if fc, ok := s.geometry.(interface{ Faces() int }); ok {
		for _, f := range faces {
			if f < 0 || f >= fc.Faces() {
				return fmt.Errorf("particles: face %d outside grid with %d faces", f, fc.Faces())
			}
		}
	}

	s.mode = mode
	s.faces = append(s.faces[:0], faces...)
	s.gridSize = gridSize
	s.count = 0
	s.newWorld()

	perFace := float64(count) / float64(len(faces))

	switch mode {
	case SpawnRandom:
		for _, face := range faces {
			for k := 0.0; k < perFace; k++ {
				pos := components.GridPos{
					Face: face,
					I:    s.rng.Float64() * gridSize,
					J:    s.rng.Float64() * gridSize,
				}
				at := s.project(&pos)
				cur := components.Current{}
				trail := components.Trail{From: at, To: at}
				life := components.Life{Remaining: s.rng.Float64()}
				s.randomMapper.NewEntity(&pos, &cur, &trail, &life)
				s.count++
			}
		}
	case SpawnLattice:
		n := math.Sqrt(perFace)
		if n == 0 {
			return nil
		}
		spacing := gridSize / n
		for _, face := range faces {
			for a := 0.0; a < n; a++ {
				for b := 0.0; b < n; b++ {
					origin := components.Origin{Face: face, I: a * spacing, J: b * spacing}
					pos := components.GridPos{Face: face, I: origin.I, J: origin.J}
					at := s.project(&pos)
					cur := components.Current{}
					trail := components.Trail{From: at, To: at}
					life := components.Life{Remaining: s.rng.Float64()}
					s.latticeMapper.NewEntity(&pos, &cur, &trail, &life, &origin)
					s.count++
				}
			}
		}
	}
	return nil
}

// Tick advances every particle once. Advanced particles faster than the
// binner's lowest threshold are classified into b; b may be nil.
// The caller is responsible for resetting b beforehand.
func (s *ParticleSystem) Tick(b *Binner) TickStats {
	st := TickStats{}
	s.speeds = s.speeds[:0]

	query := s.filter.Query()
	for query.Next() {
		pos, cur, trail, life := query.Get()

		life.Remaining -= s.opts.LifespanDecrement
		u, v, ok := s.sampler.Sample(pos.Face, pos.I, pos.J)
		if !ok || life.Remaining <= 0 {
			if !ok {
				st.NoData++
			} else {
				st.Expired++
			}
			s.respawn(query.Entity(), pos, cur, trail, life)
			st.Respawned++
			continue
		}

		trail.From = s.project(pos)
		cur.U, cur.V = u, v
		pos.I += u
		pos.J += v
		cur.M = math.Hypot(u, v) / s.opts.MaxMagnitude
		trail.To = s.project(pos)

		st.Advanced++
		s.speeds = append(s.speeds, cur.M)
		if b != nil && b.Classify(Segment{From: trail.From, To: trail.To, Speed: cur.M}) {
			st.Binned++
		}
	}
	st.Speeds = s.speeds
	return st
}

func (s *ParticleSystem) respawn(e ecs.Entity, pos *components.GridPos, cur *components.Current, trail *components.Trail, life *components.Life) {
	if s.mode == SpawnLattice && s.originMap.HasAll(e) {
		origin := s.originMap.Get(e)
		pos.Face, pos.I, pos.J = origin.Face, origin.I, origin.J
	} else {
		pos.I = s.rng.Float64() * (s.gridSize - 1)
		pos.J = s.rng.Float64() * (s.gridSize - 1)
	}
	*cur = components.Current{}
	at := s.project(pos)
	trail.From, trail.To = at, at
	life.Remaining = s.rng.Float64()
}

func (s *ParticleSystem) project(pos *components.GridPos) r2.Vec {
	return s.projector.Project(s.geometry.Lookup(pos.Face, pos.I, pos.J))
}

// Len returns the pool size. Random layouts round up per face, so Len can
// exceed the requested count by up to len(faces)-1.
func (s *ParticleSystem) Len() int { return s.count }

// Mode returns the spawn mode of the current pool.
func (s *ParticleSystem) Mode() SpawnMode { return s.mode }

// GridSize returns the extent used for spawning.
func (s *ParticleSystem) GridSize() float64 { return s.gridSize }

// Faces returns the faces particles are spawned on.
func (s *ParticleSystem) Faces() []int { return s.faces }

// Options returns the advection settings.
func (s *ParticleSystem) Options() Options { return s.opts }

// SetOptions replaces the advection settings. It must not be called during Tick.
func (s *ParticleSystem) SetOptions(opts Options) error {
	if !(opts.MaxMagnitude > 0) {
		return fmt.Errorf("particles: max magnitude %v must be positive", opts.MaxMagnitude)
	}
	s.opts = opts
	return nil
}

// Particles returns a snapshot of the pool in iteration order.
func (s *ParticleSystem) Particles() []Particle {
	out := make([]Particle, 0, s.count)
	query := s.filter.Query()
	for query.Next() {
		pos, cur, trail, life := query.Get()
		p := Particle{
			Face:     pos.Face,
			I:        pos.I,
			J:        pos.J,
			U:        cur.U,
			V:        cur.V,
			M:        cur.M,
			From:     trail.From,
			To:       trail.To,
			Lifespan: life.Remaining,
		}
		if e := query.Entity(); s.originMap.HasAll(e) {
			p.HasOrigin = true
			p.Origin = *s.originMap.Get(e)
		}
		out = append(out, p)
	}
	return out
}
