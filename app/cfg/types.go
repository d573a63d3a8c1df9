package cfg

type Cfg struct {
	// Feed source configuration
	FeedEndpoint string
	HTTPTimeout  int
	HTTPRetries  int

	// Schema validation configuration
	SchemaVersion  string
	SchemaManifest string
	SchemaStrict   bool

	// State store configuration
	DBPath            string
	DefaultPageBudget int

	// Archive configuration
	ArchiveBucket string
	AWSRegion     string

	// Queue configuration
	NatsURL       string
	StreamName    string
	SubjectPrefix string

	// Audit configuration
	AuditEndpoint string

	// Application configuration
	Port              string
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
