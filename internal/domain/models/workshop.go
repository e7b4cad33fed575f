package models

// VehicleOwner is embedded in Vehicle; the form layer edits it through
// dotted field paths ("owner.name").
type VehicleOwner struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Vehicle is a customer vehicle serviced by the workshop.
type Vehicle struct {
	ID          string       `json:"id"`
	PlateNumber string       `json:"plateNumber"`
	Make        string       `json:"make"`
	Model       string       `json:"model"`
	Year        int          `json:"year,omitempty"`
	Color       string       `json:"color,omitempty"`
	Kilometers  *int         `json:"kilometers,omitempty"` // nullable
	Owner       VehicleOwner `json:"owner,omitempty"`
}

type VehiclePayload struct {
	PlateNumber string       `json:"plateNumber" binding:"required"`
	Make        string       `json:"make" binding:"required"`
	Model       string       `json:"model" binding:"required"`
	Year        int          `json:"year"`
	Color       string       `json:"color"`
	Kilometers  *int         `json:"kilometers"` // boleh null
	Owner       VehicleOwner `json:"owner"`
}

// Repair order statuses.
const (
	RepairStatusOpen       = "open"
	RepairStatusInProgress = "in_progress"
	RepairStatusDone       = "done"
	RepairStatusCancelled  = "cancelled"
)

// RepairLine is one billed part or job line on a repair order.
type RepairLine struct {
	ItemID      string  `json:"itemId,omitempty"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// RepairOrder tracks one vehicle visit from intake to invoice.
type RepairOrder struct {
	ID         string       `json:"id"`
	VehicleID  string       `json:"vehicleId"`
	Technician string       `json:"technician,omitempty"`
	Status     string       `json:"status"`
	LaborCost  float64      `json:"laborCost,omitempty"`
	Lines      []RepairLine `json:"lines,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	CreatedAt  string       `json:"createdAt,omitempty"`
}

type RepairOrderPayload struct {
	VehicleID  *string       `json:"vehicleId,omitempty"`
	Technician *string       `json:"technician,omitempty"`
	Status     *string       `json:"status,omitempty"`
	LaborCost  *float64      `json:"laborCost,omitempty"`
	Lines      *[]RepairLine `json:"lines,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
}

// ServiceDef is a catalog entry for standard workshop services.
type ServiceDef struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes,omitempty"`
	Description     string  `json:"description,omitempty"`
}

type ServiceDefPayload struct {
	Name            string  `json:"name" binding:"required"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"durationMinutes"`
	Description     string  `json:"description"`
}

// Total sums line amounts plus labor.
func (r RepairOrder) Total() float64 {
	total := r.LaborCost
	for _, l := range r.Lines {
		total += float64(l.Quantity) * l.UnitPrice
	}
	return total
}
