package client

import (
	"fmt"

	"tapo-cli/pkg/models"
)

type manualAlarmParams struct {
	MsgAlarm struct {
		ManualDo struct {
			Action string `json:"action"` // "start" or "stop"
		} `json:"manual_do"`
	} `json:"msg_alarm"`
}

type alarmQueryParams struct {
	MsgAlarm struct {
		Name string `json:"name"`
	} `json:"msg_alarm"`
}

// TriggerManualAlarm starts or stops the camera's siren and alarm LED.
func (c *TapoClient) TriggerManualAlarm(start bool) error {
	action := "stop"
	if start {
		action = "start"
	}

	var params manualAlarmParams
	params.MsgAlarm.ManualDo.Action = action

	return c.control("do", params, nil)
}

// GetAlarmInfo queries the current siren/LED alarm configuration.
func (c *TapoClient) GetAlarmInfo() (*models.AlarmInfo, error) {
	var params alarmQueryParams
	params.MsgAlarm.Name = "chn1_msg_alarm_info"

	var respData models.AlarmStatusResponse
	if err := c.control("get", params, &respData); err != nil {
		return nil, err
	}

	if respData.ErrorCode != 0 {
		return nil, fmt.Errorf("alarm query rejected by device (error_code %d)", respData.ErrorCode)
	}

	info := respData.Result.MsgAlarm.Chn1MsgAlarmInfo
	return &info, nil
}
