// Package constants provides shared constants for the ratewise application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// BiweeklyPeriodsPerYear is the number of two-week pay periods in a year
	BiweeklyPeriodsPerYear = 26

	// WeeksPerYear is the number of weeks in a year
	WeeksPerYear = 52

	// DecimalPlaces is the number of decimal places reported for currency
	DecimalPlaces = 2
)

// Compounding periods per year.
const (
	DailyPeriods     = 365
	MonthlyPeriods   = 12
	QuarterlyPeriods = 4
	AnnualPeriods    = 1

	// MaxCompoundingYears bounds the compound interest projection.
	MaxCompoundingYears = 100

	// MaxLoanTermYears bounds the amortization schedule length.
	MaxLoanTermYears = 100
)

// Hourly conversion defaults and limits.
const (
	// HoursPerWeekLimit is the number of hours in a week.
	HoursPerWeekLimit = 168

	// DefaultHoursPerWeek is the full-time working week used when none is given.
	DefaultHoursPerWeek = 40.0

	// DefaultWeeksPerYear is the number of paid weeks used when none is given.
	DefaultWeeksPerYear = 52.0

	// DefaultOvertimeMultiplier is time-and-a-half.
	DefaultOvertimeMultiplier = 1.5
)

// US payroll figures (2024, single filer).
const (
	USStandardDeduction        = 14600.0
	USSocialSecurityRate       = 6.2
	USSocialSecurityWageBase   = 168600.0
	USMedicareRate             = 1.45
	USAdditionalMedicareRate   = 0.9
	USAdditionalMedicareThresh = 200000.0
)

// UK National Insurance figures.
const (
	UKNIPrimaryThreshold = 12570.0
	UKNIUpperLimit       = 50270.0
	UKNIMainRate         = 8.0
	UKNIUpperRate        = 2.0
)

// Fallback salary configuration for jurisdictions without a bracket table.
const (
	FallbackIncomeTaxRate = 25.0
	FallbackSocialRate    = 10.0
	FallbackCurrency      = "USD"
)

// FIRE constants
const (
	// FireHorizonYears is the last simulated year of a FIRE projection.
	FireHorizonYears = 60

	// CoastFireYears is the fixed discount horizon for Coast FIRE.
	CoastFireYears = 30

	// LeanFireFactor scales annual expenses for Lean FIRE.
	LeanFireFactor = 0.6

	// FatFireFactor scales annual expenses for Fat FIRE.
	FatFireFactor = 2.0

	// YearsToFireNotReached is returned when the target is not met within the horizon.
	YearsToFireNotReached = -1
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "ratewise.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "RATEWISE"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultReadTimeoutSeconds is the default HTTP read timeout
	DefaultReadTimeoutSeconds = 10

	// DefaultWriteTimeoutSeconds is the default HTTP write timeout
	DefaultWriteTimeoutSeconds = 10
)

// Cache configuration defaults
const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"

	// DefaultCacheTTLSeconds is how long a cached result stays valid
	DefaultCacheTTLSeconds = 3600

	// DefaultCacheMaxEntries bounds the in-memory cache
	DefaultCacheMaxEntries = 10000

	// DefaultCacheKeyPrefix namespaces cache keys in shared stores
	DefaultCacheKeyPrefix = "ratewise:"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxPercentage is the upper bound of a percentage rate
	MaxPercentage = 100.0
)
