package models

// AvailabilityResult is the outcome of a read-only availability query.
// Conflicts lists every occupied interval overlapping the requested range,
// for diagnostics. SourcesFailed counts remote feeds that could not be
// retrieved and were excluded from the decision.
type AvailabilityResult struct {
	UnitID         string     `json:"unit_id"`
	UnitName       string     `json:"unit_name"`
	CheckIn        string     `json:"check_in"`
	CheckOut       string     `json:"check_out"`
	Available      bool       `json:"available"`
	Reason         string     `json:"reason"`
	Conflicts      []Interval `json:"conflicts"`
	SourcesChecked int        `json:"sources_checked"`
	SourcesFailed  int        `json:"sources_failed"`
}
