package entity

// LookupType names a reference list used to fill a form dropdown.
type LookupType string

const (
	LookupEmployee    LookupType = "employee"
	LookupObject      LookupType = "object"
	LookupDestination LookupType = "destination"
)

// LookupValue rows are append-only through the UI; the lists mirror
// whatever the admin screen or the bulk import fed in.
type LookupValue struct {
	ID    int        `json:"id"`
	Type  LookupType `json:"type"`
	Value string     `json:"value"`
}
