package config

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultOTLPHeaders  = ""
	DefaultSampleRatio  = 1.0
)

// Interner defaults.
const (
	DefaultWarnThreshold = 0.9
)

// Sandbox defaults.
const (
	DefaultSandboxRoot    = RootProject
	DefaultSandboxPackage = ""
)

// Bench defaults.
const (
	DefaultBenchWorkers     = 8
	DefaultBenchValues      = 4096
	DefaultBenchRepeat      = 4
	DefaultBenchUniqueRatio = 0.05
)
