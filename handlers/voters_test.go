// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/ballotbox/models"
	"github.com/danielhkuo/ballotbox/registry"
	"github.com/danielhkuo/ballotbox/testutil"
)

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVoterHandler(registry.NewStore(db))

	var firstID int64

	tests := []struct {
		name            string
		body            string
		expectedStatus  int
		expectedMessage string
		checkResponse   func(t *testing.T, resp *models.LoginResponse)
	}{
		{
			name:            "new voter",
			body:            `{"identity":"BE-001","public_key":"PK1"}`,
			expectedStatus:  http.StatusCreated,
			expectedMessage: models.MessageRegistered,
			checkResponse: func(t *testing.T, resp *models.LoginResponse) {
				if resp.VoterID == nil {
					t.Fatal("Expected voter_id")
				}
				firstID = *resp.VoterID
			},
		},
		{
			name:            "same identity again",
			body:            `{"identity":"BE-001","public_key":"PK1"}`,
			expectedStatus:  http.StatusOK,
			expectedMessage: models.MessageAlreadyRegistered,
			checkResponse: func(t *testing.T, resp *models.LoginResponse) {
				if resp.VoterID == nil || *resp.VoterID != firstID {
					t.Errorf("Expected voter_id %d, got %v", firstID, resp.VoterID)
				}
			},
		},
		{
			name:            "legacy e_id as number",
			body:            `{"e_id":12345,"public_key":"PK2"}`,
			expectedStatus:  http.StatusCreated,
			expectedMessage: models.MessageRegistered,
		},
		{
			name:            "legacy e_id matches identity",
			body:            `{"e_id":"BE-001","public_key":"PK1"}`,
			expectedStatus:  http.StatusOK,
			expectedMessage: models.MessageAlreadyRegistered,
		},
		{
			name:           "missing public key",
			body:           `{"identity":"BE-003"}`,
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp *models.LoginResponse) {
				if resp.VoterID != nil {
					t.Errorf("Expected null voter_id, got %d", *resp.VoterID)
				}
			},
		},
		{
			name:           "missing identity",
			body:           `{"public_key":"PK3"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			body:           `{"identity":`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)

			var resp models.LoginResponse
			testutil.AssertJSON(t, w, &resp)
			if tt.expectedMessage != "" && resp.Message != tt.expectedMessage {
				t.Errorf("Expected message %q, got %q", tt.expectedMessage, resp.Message)
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestValidateVoter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	store := registry.NewStore(db)
	handler := NewVoterHandler(store)

	voter, err := store.Register(t.Context(), "BE-001", "PK1")
	if err != nil {
		t.Fatalf("Failed to register voter: %v", err)
	}
	id := voter.ID

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "matching key",
			body:           map[string]interface{}{"voter_id": id, "public_key": "PK1"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"ValidVoter"}`,
		},
		{
			name:           "wrong key",
			body:           map[string]interface{}{"voter_id": id, "public_key": "PK2"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"InvalidVoter"}`,
		},
		{
			name:           "unknown voter with key",
			body:           map[string]interface{}{"voter_id": id + 99, "public_key": "PK1"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"InvalidVoter"}`,
		},
		{
			name:           "registered key lookup",
			body:           map[string]interface{}{"voter_id": id},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":{"PublicKey":"PK1"}}`,
		},
		{
			name:           "unknown voter lookup",
			body:           map[string]interface{}{"voter_id": id + 99},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"InvalidVoter"}`,
		},
		{
			name:           "missing voter_id",
			body:           map[string]interface{}{"public_key": "PK1"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/validate_voter", tt.body, nil)
			w := httptest.NewRecorder()

			handler.ValidateVoter(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedBody != "" {
				if got := strings.TrimSpace(w.Body.String()); got != tt.expectedBody {
					t.Errorf("Expected body %s, got %s", tt.expectedBody, got)
				}
			}
		})
	}
}

func TestValidateVoterInvalidJSON(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	handler := NewVoterHandler(registry.NewStore(db))

	req := httptest.NewRequest("GET", "/validate_voter", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	handler.ValidateVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
}
