package accretion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"

	"planetgen/internal/random"
	apperrors "planetgen/internal/shared/errors"
)

// ErrNucleusLimit is wrapped into the error returned when a run injects more
// nuclei than the engine allows.
var ErrNucleusLimit = errors.New("nucleus limit reached")

// Disk is a snapshot of the engine's band lists.
type Disk struct {
	Dust     Bands `json:"dust"`
	Reserved Bands `json:"reserved"`
	Gas      Bands `json:"gas"`
}

type Option func(*Engine)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxNuclei bounds the number of nuclei a single run may inject.
func WithMaxNuclei(n int) Option {
	return func(e *Engine) {
		e.maxNuclei = n
	}
}

// WithWarmupNuclei overrides the number of nuclei injected across the whole
// disk before injection follows the remaining dust.
func WithWarmupNuclei(n int) Option {
	return func(e *Engine) {
		e.warmup = n
	}
}

// Engine grows planets around a star by sweeping a dust and gas disk.
// An Engine is not safe for concurrent use; each run owns its band lists.
type Engine struct {
	rng       random.Source
	logger    *slog.Logger
	maxNuclei int
	warmup    int

	star        *Star
	density     float64
	innerRadius float64
	outerRadius float64
	dust        Bands
	reserved    Bands
	gas         Bands
	nuclei      int
	merges      int
}

func NewEngine(rng random.Source, opts ...Option) *Engine {
	e := &Engine{
		rng:       rng,
		logger:    slog.Default(),
		maxNuclei: DefaultMaxNuclei,
		warmup:    WarmupNuclei,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateSystem replaces the star's planet list with a freshly accreted system.
// The list is sorted by semi-major axis, numbered from 1 and carries the
// physical statistics of each planet.
func (e *Engine) CreateSystem(ctx context.Context, star *Star) error {
	if star == nil {
		return apperrors.Validation("star is required")
	}
	if err := star.validate(); err != nil {
		return err
	}
	if e.rng == nil {
		return apperrors.Validation("random source is required")
	}
	if e.maxNuclei <= 0 {
		return apperrors.Validationf("max nuclei must be positive, got %d", e.maxNuclei)
	}

	logger := e.logger.With("component", "accretion", "operation", "create_system", "star_mass", star.Mass)
	logger.Debug("Starting accretion")

	star.derive()
	e.init(star)

	for !e.dust.Empty() {
		if err := ctx.Err(); err != nil {
			return apperrors.WrapInternal("accretion cancelled", err)
		}
		if e.nuclei >= e.maxNuclei {
			logger.Warn("Nucleus limit reached", "nuclei", e.nuclei, "dust_bands", len(e.dust))
			return apperrors.WrapInternal(fmt.Sprintf("accretion did not finish after %d nuclei", e.nuclei), ErrNucleusLimit)
		}

		p := e.createPlanet()
		e.evolve(p)
		e.coalesce(p)
	}

	dropped := e.finish()

	logger.Debug("Accretion complete",
		"nuclei", e.nuclei,
		"merges", e.merges,
		"dropped", dropped,
		"planets", len(star.Planets),
		"total_mass", star.TotalMass(),
	)
	return nil
}

// Disk returns the band lists as left by the last run.
func (e *Engine) Disk() Disk {
	return Disk{
		Dust:     slices.Clone(e.dust),
		Reserved: slices.Clone(e.reserved),
		Gas:      slices.Clone(e.gas),
	}
}

// Nuclei returns how many nuclei the last run injected.
func (e *Engine) Nuclei() int {
	return e.nuclei
}

// InitialDiskMass is the upper bound on the dust and gas any set of sweeps
// can collect from the star's disk, in solar masses.
func InitialDiskMass(star *Star) float64 {
	inner, outer := star.DiskBounds()
	a := A0 * math.Sqrt(star.Mass)
	f := func(r float64) float64 { return shellDensity(a, r) }

	const pieces = 256
	step := (outer - inner) / pieces
	var total float64
	for i := 0; i < pieces; i++ {
		lo := inner + float64(i)*step
		total += simpson(lo, lo+step, f)
	}
	return K * (1 + W) * total
}

func (e *Engine) init(star *Star) {
	e.star = star
	e.density = A0 * math.Sqrt(star.Mass)
	e.innerRadius, e.outerRadius = star.DiskBounds()
	e.dust = NewBands(e.innerRadius, e.outerRadius)
	e.reserved = NewBands(e.innerRadius, e.outerRadius)
	e.gas = NewBands(e.innerRadius, e.outerRadius)
	e.nuclei = 0
	e.merges = 0
	star.Planets = nil
}

func (e *Engine) createPlanet() *Planet {
	e.nuclei++

	ecc := 1 - math.Pow(e.rng.Float64()*0.99+0.01, Q)
	var a float64
	if e.nuclei <= e.warmup {
		ecc = math.Min(ecc*WarmupEccentricityScale, MaxEccentricity)
		a = random.Range(e.rng, e.innerRadius, e.outerRadius)
	} else {
		first := e.dust[0]
		a = random.Range(e.rng, first.Inner, first.Outer)
	}

	p := &Planet{A: a, E: ecc, Mass: M0, DustMass: M0}
	p.updateLimits()
	e.insert(p)
	return p
}

// evolve sweeps material into p until its growth stalls, then clears the
// swept interval from the disk.
func (e *Engine) evolve(p *Planet) {
	crit := CriticalMass(e.star.Luminosity, p.Perihelion())

	for i := 0; i < MaxGrowIterations; i++ {
		prev := p.Mass
		p.updateLimits()

		if dust := e.sweptMass(e.dust, p, 1); dust > p.DustMass {
			p.DustMass = dust
		}
		if p.DustMass > crit {
			p.GasGiant = true
		}
		if p.GasGiant {
			if gas := e.sweptMass(e.gas, p, gasEfficiency(p.Mass, crit)); gas > p.GasMass {
				p.GasMass = gas
			}
		}
		p.Mass = p.DustMass + p.GasMass

		if p.Mass-prev < GrowthTolerance*prev {
			break
		}
	}

	p.updateLimits()
	e.dust = e.dust.Remove(p.RMin, p.RMax)
	if p.GasGiant {
		e.gas = e.gas.Remove(p.RMin, p.RMax)
	}
}

// sweptMass integrates the disk density over the bands inside p's swept
// interval. The swept volume per unit radius is 4*pi*r^2 scaled by the
// reach ratio, widened by the dust-particle eccentricity W.
func (e *Engine) sweptMass(bands Bands, p *Planet, factor float64) float64 {
	if factor <= 0 {
		return 0
	}
	ratio := p.Reach / p.A
	mass := bands.Integrate(p.RMin, p.RMax, func(r float64) float64 {
		return shellDensity(e.density, r)
	})
	return mass * ratio * (1 + W) * factor
}

// coalesce merges p with every planet whose swept interval it overlaps. A
// merge can widen p's reach, so growth and merging repeat until stable.
func (e *Engine) coalesce(p *Planet) {
	for {
		merged := false
		for {
			other := e.findOverlap(p)
			if other == nil {
				break
			}
			e.merge(p, other)
			merged = true
		}
		if !merged {
			return
		}
		e.evolve(p)
	}
}

func (e *Engine) findOverlap(p *Planet) *Planet {
	for _, q := range e.star.Planets {
		if q != p && p.Overlaps(q) {
			return q
		}
	}
	return nil
}

func (e *Engine) merge(p, q *Planet) {
	e.merges++
	p.absorb(q)
	e.remove(q)
	e.remove(p)
	e.insert(p)
}

func (e *Engine) insert(p *Planet) {
	planets := e.star.Planets
	i := sort.Search(len(planets), func(i int) bool { return planets[i].A >= p.A })
	e.star.Planets = slices.Insert(planets, i, p)
}

func (e *Engine) remove(p *Planet) {
	e.star.Planets = slices.DeleteFunc(e.star.Planets, func(q *Planet) bool { return q == p })
}

// finish drops failed embryos, numbers the survivors and fills in their
// statistics. It returns how many planets were dropped.
func (e *Engine) finish() int {
	before := len(e.star.Planets)
	e.star.Planets = slices.DeleteFunc(e.star.Planets, func(p *Planet) bool {
		return p.Mass <= NegligibleMass
	})
	for i, p := range e.star.Planets {
		p.Number = i + 1
		ApplyStats(e.star, p)
	}
	return before - len(e.star.Planets)
}

// CriticalMass is the dust mass above which a body starts capturing gas.
func CriticalMass(luminosity, perihelion float64) float64 {
	return B * math.Pow(math.Sqrt(luminosity)/perihelion, 0.75)
}

// DustDensity is the disk density at radius r for density coefficient a.
func DustDensity(a, r float64) float64 {
	return a * math.Exp(-Alpha*math.Pow(r, Gamma))
}

func shellDensity(a, r float64) float64 {
	return DustDensity(a, r) * 4 * math.Pi * r * r
}

func gasEfficiency(mass, crit float64) float64 {
	return (K - 1) / (1 + math.Sqrt(crit/mass)*(K-1))
}
