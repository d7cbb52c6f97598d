package client

import (
	"fmt"

	"tapo-cli/pkg/models"
)

// lensMaskParams toggles the privacy mask. With the mask on the camera
// stays reachable but captures no video.
type lensMaskParams struct {
	LensMask struct {
		LensMaskInfo struct {
			Enabled string `json:"enabled"` // "on" / "off"
		} `json:"lens_mask_info"`
	} `json:"lens_mask"`
}

// SetLensMask enables or disables the privacy mask. Masking the lens is
// the device's way of stopping capture without powering off.
func (c *TapoClient) SetLensMask(enabled bool) error {
	state := "off"
	if enabled {
		state = "on"
	}

	var params lensMaskParams
	params.LensMask.LensMaskInfo.Enabled = state

	return c.control("set", params, nil)
}

// deviceInfoParams selects the basic_info block of getDeviceInfo.
type deviceInfoParams struct {
	DeviceInfo struct {
		Name []string `json:"name"`
	} `json:"device_info"`
}

// GetDeviceInfo fetches the camera's identity block (alias, model,
// firmware, MAC).
func (c *TapoClient) GetDeviceInfo() (*models.BasicInfo, error) {
	var params deviceInfoParams
	params.DeviceInfo.Name = []string{"basic_info"}

	var respData models.DeviceInfoResponse
	if err := c.control("getDeviceInfo", params, &respData); err != nil {
		return nil, err
	}

	if respData.ErrorCode != 0 {
		return nil, fmt.Errorf("getDeviceInfo rejected by device (error_code %d)", respData.ErrorCode)
	}

	info := respData.Result.DeviceInfo.BasicInfo
	return &info, nil
}
