package office

type OfficeResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	PublicIP   *string `json:"public_ip"`
	ShiftStart *string `json:"shift_start"`
	ShiftEnd   *string `json:"shift_end"`
}

func ToResponse(o Office) OfficeResponse {
	return OfficeResponse{
		ID:         o.ID,
		Name:       o.Name,
		PublicIP:   o.PublicIP,
		ShiftStart: o.ShiftStart,
		ShiftEnd:   o.ShiftEnd,
	}
}
