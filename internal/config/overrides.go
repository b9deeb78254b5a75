package config

// Overrides carries CLI flags. Nil fields were not set on the command line
// and leave the lower layers untouched.
type Overrides struct {
	DownloadDir *string
	ErrorLog    *string
	Host        *string
	Port        *int
	LogLevel    *string

	RabbitMQURL      *string
	RabbitMQHost     *string
	RabbitMQPort     *int
	RabbitMQUser     *string
	RabbitMQPassword *string
	RabbitMQVHost    *string
	RabbitMQUseSSL   *bool
	RabbitMQQueue    *string
}

// Apply layers o over c. A URL override is expanded first so individual
// broker flags can still adjust it.
func (c *Config) Apply(o Overrides) error {
	setString(&c.Download.Dir, o.DownloadDir)
	setString(&c.Download.ErrorLog, o.ErrorLog)
	setString(&c.Server.Host, o.Host)
	setInt(&c.Server.Port, o.Port)
	setString(&c.Server.LogLevel, o.LogLevel)

	r := &c.RabbitMQ
	if o.RabbitMQURL != nil {
		r.URL = *o.RabbitMQURL
		if err := r.expandURL(); err != nil {
			return &ConfigError{Errors: []string{err.Error()}}
		}
		r.detectCloudAMQP()
	}
	if o.RabbitMQHost != nil {
		r.Host = *o.RabbitMQHost
		r.detectCloudAMQP()
	}
	setInt(&r.Port, o.RabbitMQPort)
	setString(&r.User, o.RabbitMQUser)
	setString(&r.Password, o.RabbitMQPassword)
	setString(&r.VHost, o.RabbitMQVHost)
	setString(&r.Queue, o.RabbitMQQueue)
	if o.RabbitMQUseSSL != nil {
		r.UseSSL = Flag(*o.RabbitMQUseSSL)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
