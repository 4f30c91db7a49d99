// Package files tracks the raw data drops and generated reports on disk.
package files
