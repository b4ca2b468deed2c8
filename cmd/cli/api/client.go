package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/muhzarfan/backend-cttn/cmd/cli/config"
)

// Envelope mirrors the API response shape.
type Envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Call performs a JSON request against the API. token may be empty for
// public endpoints. When out is non-nil the envelope's data is decoded
// into it.
func Call(method, path, token string, payload, out interface{}) error {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response (%s): %w", resp.Status, err)
	}
	if !env.Success {
		if len(env.Errors) > 0 {
			return fmt.Errorf("%s: %v", env.Message, env.Errors)
		}
		return fmt.Errorf("%s", env.Message)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return err
		}
	}
	return nil
}
