// Package logger provides structured logging for wirekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers. The di container logs every diagnostic it records
// through a logger from this package.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("di")
//	log.Info("registered", logger.Fields(logger.FieldKey, "orderService"))
package logger
