package cfg

type Cfg struct {
	// Application configuration
	Port         string
	APIAccessKey string
	SourcesFile  string
	CachePath    string

	// Source credentials
	ExaAPIKey  string
	JinaAPIKey string

	// Cache TTLs (hours)
	WikipediaTTL int
	RSSTTL       int
	ExternalTTL  int

	// Background refresh
	RefreshInterval int
	WorkerCount     int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
