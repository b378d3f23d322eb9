/*
Package monitoring provides metrics collection for the desktop backend.

# Overview

Metrics live on a per-instance Prometheus registry and cover HTTP traffic,
window operations, terminal commands, remote generation calls and WebSocket
connections.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "generate_image")
	// ... perform call ...
	timer.Stop("success")
*/
package monitoring
