package client

import "strconv"

// motorMoveParams nests the relative move coordinates the way the
// firmware expects them: string-encoded tenths of a degree.
type motorMoveParams struct {
	Motor struct {
		Move struct {
			XCoord string `json:"x_coord"`
			YCoord string `json:"y_coord"`
		} `json:"move"`
	} `json:"motor"`
}

type gotoPresetParams struct {
	Preset struct {
		GotoPreset struct {
			ID string `json:"id"`
		} `json:"goto_preset"`
	} `json:"preset"`
}

// MoveStep pans/tilts the camera by a relative step. x is horizontal,
// y vertical, both in tenths of a degree (positive = right/up).
func (c *TapoClient) MoveStep(x, y int) error {
	var params motorMoveParams
	params.Motor.Move.XCoord = strconv.Itoa(x)
	params.Motor.Move.YCoord = strconv.Itoa(y)

	return c.control("do", params, nil)
}

// GotoPreset recalls a stored PTZ preset position.
func (c *TapoClient) GotoPreset(presetID string) error {
	var params gotoPresetParams
	params.Preset.GotoPreset.ID = presetID

	return c.control("do", params, nil)
}
