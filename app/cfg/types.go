package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SourcesDir        string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// OpenAI configuration
	OpenAIAPIKey string
	OpenAIModel  string

	// Digest delivery configuration
	SMTPHost         string
	SMTPPort         int
	SMTPUsername     string
	SMTPPassword     string
	SMTPFrom         string
	DigestRecipients []string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
