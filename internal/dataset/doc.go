// Package dataset reads the raw input files feeding the analytics pipeline:
// the incidents and logins CSV drops (French headers, fixed filenames) and
// the extended customers/sales Excel workbooks. Loaders are tolerant of the
// usual export noise: UTF-8 BOMs, blank lines, float-rendered integers and
// Excel date serials. Malformed rows are skipped and counted, never fatal.
package dataset
