// Package middleware provides HTTP middleware for the IPC server.
//
// Middleware stack includes:
//   - CORS: loopback origins for the embedded UI
//   - RateLimit: per-client token bucket with idle cleanup
//   - RequestID: X-Request-ID propagation
//   - AccessLog: debug-level request logging through zap
//
// Example Usage:
//
//	router.Use(middleware.RequestID())
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
