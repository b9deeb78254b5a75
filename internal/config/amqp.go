package config

import (
	"fmt"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultAMQPPort  = 5672
	DefaultAMQPSPort = 5671

	cloudAMQPDomain = "cloudamqp.com"
)

// ParseAMQPURL expands a connection URL into broker fields. A bare
// "user:pass@host" is treated as amqp://. Missing credentials default to
// guest and a missing vhost to "/".
func ParseAMQPURL(raw string) (RabbitMQConfig, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "amqp://") && !strings.HasPrefix(raw, "amqps://") {
		raw = "amqp://" + raw
	}

	uri, err := amqp.ParseURI(raw)
	if err != nil {
		return RabbitMQConfig{}, fmt.Errorf("rabbitmq.url: %w", err)
	}

	r := RabbitMQConfig{
		Host:     uri.Host,
		Port:     uri.Port,
		User:     uri.Username,
		Password: uri.Password,
		VHost:    uri.Vhost,
		UseSSL:   Flag(uri.Scheme == "amqps"),
	}
	if r.Host == "" {
		r.Host = "localhost"
	}
	if r.User == "" {
		r.User = "guest"
	}
	if r.Password == "" {
		r.Password = "guest"
	}
	if r.VHost == "" {
		r.VHost = "/"
	}
	return r, nil
}

// expandURL copies the fields parsed from URL over the individual settings.
func (r *RabbitMQConfig) expandURL() error {
	if r.URL == "" {
		return nil
	}
	parsed, err := ParseAMQPURL(r.URL)
	if err != nil {
		return err
	}
	r.Host = parsed.Host
	r.Port = parsed.Port
	r.User = parsed.User
	r.Password = parsed.Password
	r.VHost = parsed.VHost
	r.UseSSL = parsed.UseSSL
	return nil
}

// IsCloudAMQP reports whether Host belongs to the CloudAMQP managed service.
func (r RabbitMQConfig) IsCloudAMQP() bool {
	return strings.Contains(strings.ToLower(r.Host), cloudAMQPDomain)
}

// detectCloudAMQP forces TLS for CloudAMQP hosts and moves the default
// plaintext port to the TLS port.
func (r *RabbitMQConfig) detectCloudAMQP() {
	if !r.IsCloudAMQP() {
		return
	}
	r.UseSSL = true
	if r.Port == DefaultAMQPPort {
		r.Port = DefaultAMQPSPort
	}
}

// URI returns the connection string for the configured broker.
func (r RabbitMQConfig) URI() string {
	scheme := "amqp"
	if r.UseSSL {
		scheme = "amqps"
	}
	port := r.Port
	if port == 0 {
		port = DefaultAMQPPort
		if r.UseSSL {
			port = DefaultAMQPSPort
		}
	}
	return amqp.URI{
		Scheme:   scheme,
		Host:     r.Host,
		Port:     port,
		Username: r.User,
		Password: r.Password,
		Vhost:    r.VHost,
	}.String()
}

// Redacted returns host:port/vhost for logging.
func (r RabbitMQConfig) Redacted() string {
	return fmt.Sprintf("%s:%d, vhost: %s", r.Host, r.Port, r.VHost)
}
