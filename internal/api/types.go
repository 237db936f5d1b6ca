package api

// HeartbeatRequest is the body of POST /api/app/online. Pointer fields
// distinguish absent parameters from empty ones so validation can report
// exactly what is missing.
type HeartbeatRequest struct {
	ProductID *string `json:"product_id"`
	Identity  *string `json:"identity"`
}

// OnlineResponse is the payload for GET /api/app/online/{productID}.
type OnlineResponse struct {
	Online int `json:"online"`
}

// TimeLeftResponse is the payload for GET /api/app/time-left/... .
// TimeLeft is the remaining whole minutes as an integer, or one of the
// literals "inactive" / "lifetime".
type TimeLeftResponse struct {
	TimeLeft any    `json:"time_left"`
	Identity string `json:"identity"`
}

// ProductPresence is one product's entry in PresenceResponse.
type ProductPresence struct {
	ProductID string `json:"product_id"`
	Online    int    `json:"online"`
}

// PresenceResponse is the payload for GET /api/v1/presence and the
// WebSocket presence broadcast.
type PresenceResponse struct {
	Products    []ProductPresence `json:"products"`
	GeneratedAt string            `json:"generated_at"` // RFC3339
}

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}

// errorResponse is the error body shared by all endpoints. Missing lists
// the absent request parameters on validation failures.
type errorResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}
