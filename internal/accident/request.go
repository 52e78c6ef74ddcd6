package accident

type ReportAccidentRequest struct {
	UserID string   `json:"user_id"`
	Name   string   `json:"name"`
	Lat    *float64 `json:"lat"`
	Lon    *float64 `json:"lon"`
}

type AcceptEmergencyRequest struct {
	HospitalName  string `json:"hospital_name"`
	HospitalPhone string `json:"hospital_phone"`
}

type LocateRequest struct {
	Lat *float64 `form:"lat"`
	Lon *float64 `form:"lon"`
}
