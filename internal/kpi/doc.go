// Package kpi computes the reporting indicators: monthly incident volume,
// quarterly financial impact, monthly login failure rates, before/after
// campaign comparisons and the executive summary block.
package kpi
