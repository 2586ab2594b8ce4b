package constants

import "time"

// Environment variable constants
const (
	EnvHost            = "ITEMSVC_HOST"
	EnvPort            = "ITEMSVC_PORT"
	EnvMetricsPort     = "ITEMSVC_METRICS_PORT"
	EnvEnvironment     = "ITEMSVC_ENVIRONMENT"
	EnvReadTimeout     = "ITEMSVC_READ_TIMEOUT"
	EnvWriteTimeout    = "ITEMSVC_WRITE_TIMEOUT"
	EnvIdleTimeout     = "ITEMSVC_IDLE_TIMEOUT"
	EnvMaxRequestSize  = "ITEMSVC_MAX_REQUEST_SIZE"
	EnvShutdownTimeout = "ITEMSVC_SHUTDOWN_TIMEOUT"
	EnvLogLevel        = "ITEMSVC_LOG_LEVEL"
	EnvLogFormat       = "ITEMSVC_LOG_FORMAT"
	EnvRedisURL        = "ITEMSVC_REDIS_URL"
	EnvProbeTimeout    = "ITEMSVC_PROBE_TIMEOUT"
)

// HTTP header constants
const (
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
	HeaderResponseTime  = "X-Response-Time"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"
)

// Content type constants
const (
	ContentTypeJSON = "application/json"
)

// CORS header constants
const (
	HeaderOrigin                        = "Origin"
	HeaderAccessControlAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAccessControlAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAccessControlMaxAge           = "Access-Control-Max-Age"
)

// Observability paths
const (
	PathHealth    = "/health"
	PathLiveness  = "/health/live"
	PathReadiness = "/health/ready"
	PathMetrics   = "/metrics"
)

// Rate limiter internal constants
const (
	// RateLimitCleanupInterval is the interval for cleaning up the limiter cache
	RateLimitCleanupInterval = 5 * time.Minute
	// RateLimitMaxCacheSize is the maximum number of tracked clients
	RateLimitMaxCacheSize = 10000
)

// Server limits (internal use only - not user configurable)
const (
	// ServerMaxRequestSize is the maximum request body size (10MB)
	ServerMaxRequestSize = 10 * 1024 * 1024
)
