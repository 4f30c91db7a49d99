// Package segmentation clusters companies, users and customers into behaviour
// segments. Features are aggregated from the cleaned datasets, standardized,
// and clustered with k-means (k-means++ seeding, restarted); company segments
// additionally carry a 2-D principal-component projection.
package segmentation
