// Package server provides the Gin-backed HTTP server, its middleware stack,
// and the REST endpoints for workflows, documents, chat, and health.
package server
