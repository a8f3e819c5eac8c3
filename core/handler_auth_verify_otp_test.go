package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/db/mock"
)

func TestVerifyOtpHandler(t *testing.T) {
	pending := &db.PendingRegistration{
		ID:       7,
		Email:    "ann@example.com",
		Name:     "Ann",
		Password: "$2a$10$hashhashhashhashhashhash",
		Otp:      "123456",
	}

	testCases := []struct {
		name        string
		requestBody string
		dbSetup     func(*mock.Db)
		wantStatus  int
	}{
		{
			name:        "unknown or expired code",
			requestBody: `{"email":"ann@example.com","otp":"999999"}`,
			dbSetup: func(m *mock.Db) {
				m.GetPendingRegistrationFunc = func(email, otp string) (*db.PendingRegistration, error) {
					return nil, nil
				}
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "identity claimed while code in flight",
			requestBody: `{"email":"ann@example.com","otp":"123456"}`,
			dbSetup: func(m *mock.Db) {
				m.GetPendingRegistrationFunc = func(email, otp string) (*db.PendingRegistration, error) {
					return pending, nil
				}
				m.GetUserByEmailOrPhoneFunc = func(email, phone string) (*db.User, error) {
					return &db.User{ID: "other", Email: "ann@example.com"}, nil
				}
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "lost creation race",
			requestBody: `{"email":"ann@example.com","otp":"123456"}`,
			dbSetup: func(m *mock.Db) {
				m.GetPendingRegistrationFunc = func(email, otp string) (*db.PendingRegistration, error) {
					return pending, nil
				}
				m.ConfirmRegistrationFunc = func(pendingID int64, user db.User) (*db.User, error) {
					return nil, db.ErrConstraintUnique
				}
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "success",
			requestBody: `{"email":"ann@example.com","otp":"123456"}`,
			dbSetup: func(m *mock.Db) {
				m.GetPendingRegistrationFunc = func(email, otp string) (*db.PendingRegistration, error) {
					if email == pending.Email && otp == pending.Otp {
						return pending, nil
					}
					return nil, nil
				}
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDb := &mock.Db{}
			tc.dbSetup(mockDb)
			app := newTestApp(mockDb)

			req := httptest.NewRequest("POST", "/api/verify-otp", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			app.VerifyOtpHandler(rr, req)

			if rr.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tc.wantStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestVerifyOtpHandler_IssuesSession(t *testing.T) {
	pending := &db.PendingRegistration{
		ID:       7,
		Email:    "ann@example.com",
		Name:     "Ann",
		Password: "$2a$10$hashhashhashhashhashhash",
		Otp:      "123456",
	}

	var confirmed *db.User
	mockDb := &mock.Db{
		GetPendingRegistrationFunc: func(email, otp string) (*db.PendingRegistration, error) {
			return pending, nil
		},
		ConfirmRegistrationFunc: func(pendingID int64, user db.User) (*db.User, error) {
			if pendingID != pending.ID {
				t.Errorf("expected pending id %d, got %d", pending.ID, pendingID)
			}
			confirmed = &user
			return &user, nil
		},
	}
	app := newTestApp(mockDb)

	req := httptest.NewRequest("POST", "/api/verify-otp", strings.NewReader(`{"email":"ann@example.com","otp":"123456"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	app.VerifyOtpHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if confirmed == nil {
		t.Fatal("expected the user to be created")
	}
	if !confirmed.Verified {
		t.Error("confirmed user must be verified")
	}
	if confirmed.ID == "" {
		t.Error("confirmed user must get an id")
	}

	body := decodeEnvelope(t, rr)
	data, _ := body["data"].(map[string]any)
	if data["access_token"] == "" || data["access_token"] == nil {
		t.Error("expected a session token in the response")
	}
	if data["token_type"] != "Bearer" {
		t.Errorf("token_type = %v", data["token_type"])
	}
}
