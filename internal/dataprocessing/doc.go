// Package dataprocessing holds the cleaning and exploration step of the
// pipeline: normalization of raw incident and login rows and the descriptive
// summary computed before segmentation and KPI work.
package dataprocessing
