// Package http provides the http_fetch command.
//
// Requests go through resty on a retryablehttp pooled transport, a rate
// limiter and a circuit breaker. Text bodies are decoded to UTF-8. HTML
// bodies can be narrowed with a CSS selector (goquery) or an XPath
// expression (htmlquery), or sanitized (bluemonday) before they reach the UI.
package http
