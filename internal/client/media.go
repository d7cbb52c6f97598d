package client

import (
	"errors"
	"fmt"
)

// GetSnapshot downloads a JPEG still frame from the camera.
// Returns the binary byte slice of the image.
func (c *TapoClient) GetSnapshot(channel int) ([]byte, error) {
	if c.stok == "" {
		if _, err := c.Login(); err != nil {
			return nil, err
		}
	}

	resp, err := c.r().
		SetQueryParam("channel", fmt.Sprintf("%d", channel)).
		Get(fmt.Sprintf("/stok=%s/pic", c.stok))

	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to get snapshot: %s", resp.String())
	}

	if len(resp.Body()) == 0 {
		return nil, errors.New("response body is empty")
	}

	return resp.Body(), nil
}
