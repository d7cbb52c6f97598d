package models

// AlarmStatusResponse wraps the msg_alarm query result.
type AlarmStatusResponse struct {
	ErrorCode int `json:"error_code"`
	Result    struct {
		MsgAlarm struct {
			Chn1MsgAlarmInfo AlarmInfo `json:"chn1_msg_alarm_info"`
		} `json:"msg_alarm"`
	} `json:"result"`
}

// AlarmInfo describes the camera's siren/LED alarm configuration.
type AlarmInfo struct {
	Enabled   string   `json:"enabled"`    // "on" / "off"
	AlarmMode []string `json:"alarm_mode"` // "sound", "light"
	LightType string   `json:"light_type"`
}
