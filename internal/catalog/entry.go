// Package catalog defines the labeled-entry data model shared by the NOMAD
// fetcher, the sampling engine, and the manifest writers.
package catalog

// UnknownSystem is the stratum label assigned to entries whose source record
// carries no structural classification. Entries always have a system label;
// the sampling engine never sees an empty one.
const UnknownSystem = "unknown"

// Entry is the minimal representation of one repository entry used for
// sampling. Instances are built once from a raw catalog record and treated
// as immutable afterwards; sampling stages derive new slices instead of
// mutating entries in place.
type Entry struct {
	// EntryID is the catalog's stable unique identifier.
	EntryID string `json:"entry_id"`

	UploadID string `json:"upload_id,omitempty"`
	Mainfile string `json:"mainfile,omitempty"`

	// MainAuthor is the normalized author key the selector spreads the
	// sample across. Empty means the source record had no usable author.
	MainAuthor string `json:"main_author,omitempty"`

	// System is the stratification label, derived from the structural type
	// and defaulted to UnknownSystem when the source has none.
	System string `json:"system"`

	StructuralType string `json:"structural_type,omitempty"`
}

// HasAuthor reports whether the entry carries a usable author key.
func (e Entry) HasAuthor() bool { return e.MainAuthor != "" }
