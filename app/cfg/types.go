package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Pipeline configuration
	FeedsFile           string
	MaxItems            int
	Timeout             int
	ReadabilityFallback bool

	// Server mode configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int

	// Application metadata
	UserAgent string
	Command   string
	Debug     bool
	Version   string
}
