package telemetry

type Config struct {
	// The URL to the Jaeger instance.
	JaegerURL string `yaml:"jaegerUrl"`
	// OTLP exporter configuration, used instead of Jaeger when Host is set.
	OTLP OTLP `yaml:"otlp"`
	// The package name to use for the telemetry.
	Package string `yaml:"package"`
	// ID of the service instance.
	ID string `yaml:"id"`
}

// OTLP configures the OTLP/HTTP trace exporter.
type OTLP struct {
	// Host (no protocol, no trailing slash) of the OTLP collector.
	Host string `yaml:"host"`
	// Secure enables TLS when talking to the collector.
	Secure bool `yaml:"secure"`
}
