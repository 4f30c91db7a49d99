// Package profiling turns raw segmentation output into readable cluster
// characterizations: per-cluster sizes, population shares, dominant
// categorical values and central tendencies of the numeric features.
package profiling
