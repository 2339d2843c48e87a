package entity

// Date and timestamp fields are stored as text: dates as "2006-01-02",
// timestamps as "2006-01-02 15:04:05". Range filters compare them
// lexicographically, which matches calendar order for these layouts.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
	ClockLayout     = "15:04"
)

const VisitStatusCancelled = "cancelled"

type Visit struct {
	ID             int     `json:"id"`
	CreatedBy      string  `json:"created_by"`
	ArrivalDate    string  `json:"arrival_date"`
	ExpectedTime   *string `json:"expected_time"`
	HostEmployee   string  `json:"host_employee"`
	Phone          *string `json:"phone"`
	ObjectName     string  `json:"object_name"`
	GuestName      string  `json:"guest_name"`
	DocumentNumber *string `json:"document_number"`
	VehiclePlate   *string `json:"vehicle_plate"`
	Note           *string `json:"note"`
	PersonsCount   *int    `json:"persons_count"`
	EntryTime      *string `json:"entry_time"`
	ExitTime       *string `json:"exit_time"`
	Status         *string `json:"status"`
}

func (v Visit) Cancelled() bool {
	return v.Status != nil && *v.Status == VisitStatusCancelled
}

// Closed means the gatehouse has recorded both the entry and the exit.
func (v Visit) Closed() bool {
	return v.EntryTime != nil && v.ExitTime != nil
}

// VisitFilter composes the optional audit-view filters conjunctively.
// Empty fields are no-ops. Date bounds are inclusive; the text fields
// are case-insensitive substring matches.
type VisitFilter struct {
	DateFrom   string
	DateTo     string
	Host       string
	ObjectName string
	GuestName  string
}
