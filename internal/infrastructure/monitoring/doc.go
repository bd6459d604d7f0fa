/*
Package monitoring provides Prometheus metrics for the shell.

# Overview

Metrics live in a registry owned by each Metrics value rather than the
global default, so tests can build as many servers as they like.

Metrics implements the observer hooks of the other layers:
  - logging.Observer: records delivered and failed per sink, current level
  - commands.Observer: command calls and latency
  - shell.Observer: tray events

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
