package accretion

// Disk and growth parameters from Dole's 1970 model.
const (
	A0    = 0.0015  // dust density coefficient, solar masses per AU^3
	Alpha = 5.0     // radial falloff of dust density
	Gamma = 1.0 / 3 // exponent on r in the density profile
	K     = 50.0    // gas to dust ratio
	B     = 1.2e-5  // critical mass coefficient
	W     = 0.2     // eccentricity of dust particles
	M0    = 1e-15   // mass of a fresh nucleus, solar masses
	Q     = 0.077   // eccentricity distribution exponent

	InnerDiskFactor = 0.3
	OuterDiskFactor = 50.0
	DiskMassExp     = 0.33
)

const (
	// WarmupNuclei is how many nuclei are injected anywhere in the disk
	// before injection switches to the innermost remaining dust band.
	WarmupNuclei = 20000
	// WarmupEccentricityScale widens warm-up orbits.
	WarmupEccentricityScale = 2.0
	MaxEccentricity         = 0.99

	// GrowthTolerance stops the sweep loop once a pass adds less than 1%.
	GrowthTolerance   = 0.01
	MaxGrowIterations = 1000

	// NegligibleMass is the largest final mass dropped as a failed embryo.
	NegligibleMass = 2e-8

	DefaultMaxNuclei = 200000

	simpsonSteps = 16
)

// Physical constants used by the statistics pass. CGS unless noted.
const (
	SolarMassInEarthMasses = 329390.0
	SolarMassInGrams       = 1.989e33
	EarthMassInGrams       = 5.977e27
	EarthRadiusCm          = 6.378e8
	EarthRadiusKm          = 6378.0
	EarthDensity           = 5.52
	EarthAcceleration      = 981.0
	CmPerKm                = 1e5
	GravConstant           = 6.672e-8
	AngularMomentumJ       = 1.46e-19
	ChangeInEarthAngVel    = -1.3e-15 // rad/s per year
	StellarAgeYears        = 4e9
	SolarConstant          = 1400.0 // W/m^2 at 1 AU
	StefanBoltzmann        = 5.67e-8
	DaysInYear             = 365.256
	HoursInDay             = 24.0
	SecondsPerHour         = 3600.0
	GasGiantK2             = 0.24
	RockyK2                = 0.33
	MinGasFraction         = 0.1
	ResonanceEccentricity  = 0.1
	RockyDensityFactor     = 5.5
	GasGiantDensityFactor  = 1.2
)
