package models

// ControlResponse is the generic envelope returned by the camera's control
// endpoint. A non-zero ErrorCode means the camera rejected the request even
// though the HTTP status was 200.
type ControlResponse struct {
	ErrorCode int `json:"error_code"`
}

// LoginResponse captures the session token (stok) returned by the login handshake.
type LoginResponse struct {
	ErrorCode int `json:"error_code"`
	Result    struct {
		Stok      string `json:"stok"`
		UserGroup string `json:"user_group"`
	} `json:"result"`
}

// DeviceInfoResponse wraps the getDeviceInfo result.
type DeviceInfoResponse struct {
	ErrorCode int `json:"error_code"`
	Result    struct {
		DeviceInfo struct {
			BasicInfo BasicInfo `json:"basic_info"`
		} `json:"device_info"`
	} `json:"result"`
}

// BasicInfo holds a camera's identity as reported by the device itself.
type BasicInfo struct {
	DeviceType  string `json:"device_type"`
	DeviceModel string `json:"device_model"`
	DeviceAlias string `json:"device_alias"` // user-assigned display name
	DeviceID    string `json:"dev_id"`
	SwVersion   string `json:"sw_version"`
	HwVersion   string `json:"hw_version"`
	MAC         string `json:"mac"`
}
