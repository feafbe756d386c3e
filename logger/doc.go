// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. The fold drivers log
// through logger.Get("run").
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("my-component")
//	log.Info("run finished", logger.Fields(logger.FieldRunID, id))
package logger
