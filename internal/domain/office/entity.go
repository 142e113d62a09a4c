package office

// Office is a read-only snapshot from the staff directory.
type Office struct {
	ID         int64
	Name       string
	PublicIP   *string
	ShiftStart *string // "HH:MM:SS" in the organizational zone
	ShiftEnd   *string
}
