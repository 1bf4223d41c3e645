// Package logger provides structured logging built on zerolog.
//
// Components obtain a tagged logger via logger.Get(name) or
// logger.WithComponent(name); the global instance is configured once at
// startup with Init.
package logger
