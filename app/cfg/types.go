package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	FetchDelay        int
	APIAccessKey      string
	RedisAddr         string
	RenderingEnabled  bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
