package entity

type Truck struct {
	ID                int     `json:"id"`
	CreatedBy         string  `json:"created_by"`
	DriverName        string  `json:"driver_name"`
	DriverDocument    *string `json:"driver_document"`
	CodriverName      *string `json:"codriver_name"`
	CodriverDocument  *string `json:"codriver_document"`
	DriverPhone       *string `json:"driver_phone"`
	Plate             string  `json:"plate"`
	Destination       string  `json:"destination"`
	ArrivalDate       string  `json:"arrival_date"`
	ArrivalTime       string  `json:"arrival_time"`
	DepartureDatetime *string `json:"departure_datetime"`
}

// OnPremises is true while no departure has been recorded.
func (t Truck) OnPremises() bool {
	return t.DepartureDatetime == nil
}

type TruckFilter struct {
	DateFrom    string
	DateTo      string
	Plate       string
	Destination string
}
