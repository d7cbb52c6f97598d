package client

import (
	"fmt"
	"time"

	"tapo-cli/pkg/models"
)

type alertLogParams struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
	// Firmware caps pages at 50 entries; one page is enough for a CLI view.
	StartID  int `json:"start_id"`
	PageSize int `json:"page_size"`
}

// GetAlertEvents fetches the on-device detection log (motion, person,
// tamper) for the given time range.
func (c *TapoClient) GetAlertEvents(from, to time.Time) ([]models.AlertEvent, error) {
	params := alertLogParams{
		StartTime: from.Unix(),
		EndTime:   to.Unix(),
		StartID:   0,
		PageSize:  50,
	}

	var respData models.AlertEventsResponse
	if err := c.control("getAlertEventLog", params, &respData); err != nil {
		return nil, err
	}

	if respData.ErrorCode != 0 {
		return nil, fmt.Errorf("event query rejected by device (error_code %d)", respData.ErrorCode)
	}

	return respData.Result.Events, nil
}
