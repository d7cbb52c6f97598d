package models

// AlertEventsResponse wraps the getAlertEventLog result.
type AlertEventsResponse struct {
	ErrorCode int `json:"error_code"`
	Result    struct {
		Events []AlertEvent `json:"alert_event_log"`
		Total  int          `json:"total"`
	} `json:"result"`
}

// AlertEvent is a single detection event recorded by the camera.
type AlertEvent struct {
	ID        string `json:"id"`
	Type      string `json:"alarm_type"` // e.g. "motion", "person", "tamper"
	StartTime int64  `json:"start_time"` // Unix seconds
	EndTime   int64  `json:"end_time"`
	Channel   int    `json:"channel"`
}
