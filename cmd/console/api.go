package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/duskmantle/beacon/pkg/play"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func decodeResponse(body []byte, statusCode, wantStatus int, action string) (*play.Response, error) {
	if statusCode != wantStatus {
		var errorResp play.ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", statusCode, string(body))
		}
		return nil, fmt.Errorf("failed to %s: %s", action, errorResp.Error)
	}

	var playResp play.Response
	if err := json.Unmarshal(body, &playResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &playResp, nil
}

func createSession(client *http.Client, baseURL string) (*play.Response, error) {
	resp, err := client.Post(baseURL+"/v1/session", "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return decodeResponse(body, resp.StatusCode, http.StatusCreated, "create session")
}

func getSession(client *http.Client, baseURL string, sessionID uuid.UUID) (*play.Response, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/session/%s", baseURL, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return decodeResponse(body, resp.StatusCode, http.StatusOK, "get session")
}

func sendChoice(client *http.Client, baseURL string, sessionID uuid.UUID, index int) (*play.Response, error) {
	req := play.ChoiceRequest{Index: &index}
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/session/%s/choice", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return decodeResponse(body, resp.StatusCode, http.StatusOK, "send choice")
}

func enterLiveMode(client *http.Client, baseURL string, sessionID uuid.UUID, req play.LiveRequest) (*play.Response, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/session/%s/live", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return decodeResponse(body, resp.StatusCode, http.StatusOK, "enter live mode")
}
