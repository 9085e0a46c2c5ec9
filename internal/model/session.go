package model

type RecordSessionRequest struct {
	Session map[string]any `json:"session"`
}

type RecordSessionResponse struct {
	Success   bool   `json:"success"`
	Duplicate bool   `json:"duplicate"`
	SessionID string `json:"session_id"`
}

type GetSessionsRequest struct {
	DateKey string `json:"date_key"`
}

type GetSessionsResponse struct {
	DateKey  string    `json:"date_key"`
	Sessions []Session `json:"sessions"`
}
