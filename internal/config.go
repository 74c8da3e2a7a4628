package internal

import (
	"time"
)

// WidgetConfig drives the terminal widget. Reveal pacing and the send
// queue depth are configuration, not fixed behavior.
type WidgetConfig struct {
	EndpointURL    string        `env:"SERENITY_ENDPOINT_URL,default=http://localhost:8090/functions/v1/serenity-ai"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT,default=10s"`
	RevealInterval time.Duration `env:"REVEAL_INTERVAL,default=20ms"`
	RevealStep     int           `env:"REVEAL_STEP,default=3"`
	BufferSize     int           `env:"BUFFER_SIZE,default=16"`
	SinkTimeout    time.Duration `env:"SINK_TIMEOUT,default=2s"`
	LogLevel       string        `env:"LOG_LEVEL,default=INFO"`
	Colours        bool          `env:"WIDGET_COLOURS,default=true"`
}

// ServerConfig drives the reply endpoint stand-in.
type ServerConfig struct {
	Host              string        `env:"HOST,default=0.0.0.0"`
	Port              int           `env:"PORT,default=8090"`
	UpstreamURL       string        `env:"INFERENCE_URL,default=https://api-inference.huggingface.co/models/facebook/bart-large-cnn"`
	UpstreamToken     string        `env:"HUGGINGFACE_API_TOKEN,required=true"`
	UpstreamTimeout   time.Duration `env:"INFERENCE_TIMEOUT,default=30s"`
	TelemetryInterval time.Duration `env:"TELEMETRY_INTERVAL,default=30s"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
}
