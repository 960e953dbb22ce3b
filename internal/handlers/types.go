package handlers

// TimeResponse is the response for the time lookup endpoints.
type TimeResponse struct {
	Body struct {
		Time    string `doc:"Current time of day" example:"14:03:27.512" json:"time"`
		Message string `doc:"Quota state observed by this call" example:"Current quota EXAMPLE::TIME in 3/10" json:"message"`
		Count   int64  `doc:"Calls recorded in this window before this one" example:"3" json:"count"`
		Limit   int64  `doc:"Calls allowed per key per minute" example:"10" json:"limit"`
	}
}
