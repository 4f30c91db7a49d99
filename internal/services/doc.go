// Package services holds the application service layer between the HTTP
// transport and the analytics packages: report access, pipeline execution
// and health checks.
package services
