package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/grouplet/grouplet/db"
	"github.com/grouplet/grouplet/db/mock"
	"github.com/grouplet/grouplet/queue"
)

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

func TestRegisterHandler_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		requestBody string
		wantErrors  []string
	}{
		{
			name:        "missing everything",
			requestBody: `{}`,
			wantErrors: []string{
				"The name field is required",
				"The email field is required",
				"The password field is required",
				"The password_confirmation field is required",
			},
		},
		{
			name:        "invalid email",
			requestBody: `{"name":"Ann","email":"not-an-email","password":"secret1","password_confirmation":"secret1"}`,
			wantErrors:  []string{"The email must be a valid email address"},
		},
		{
			name:        "short password",
			requestBody: `{"name":"Ann","email":"ann@example.com","password":"abc","password_confirmation":"abc"}`,
			wantErrors:  []string{"The password must be at least 6 characters"},
		},
		{
			name:        "password mismatch",
			requestBody: `{"name":"Ann","email":"ann@example.com","password":"secret1","password_confirmation":"secret2"}`,
			wantErrors:  []string{"The password confirmation does not match"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(&mock.Db{})

			req := httptest.NewRequest("POST", "/api/register", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			app.RegisterHandler(rr, req)

			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected status 422, got %d", rr.Code)
			}

			body := decodeEnvelope(t, rr)
			got, _ := body["errors"].([]any)
			for _, want := range tc.wantErrors {
				found := false
				for _, g := range got {
					if g == want {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error %q in %v", want, got)
				}
			}
		})
	}
}

func TestRegisterHandler_DuplicateIdentity(t *testing.T) {
	mockDb := &mock.Db{
		GetUserByEmailOrPhoneFunc: func(email, phone string) (*db.User, error) {
			return &db.User{ID: "u1", Email: "ann@example.com", Phone: "123456"}, nil
		},
	}
	app := newTestApp(mockDb)

	body := `{"name":"Ann","email":"ann@example.com","phone":"123456","password":"secret1","password_confirmation":"secret1"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	app.RegisterHandler(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rr.Code)
	}

	got := decodeEnvelope(t, rr)
	errs, _ := got["errors"].([]any)
	if len(errs) != 2 {
		t.Errorf("expected both email and phone conflicts reported, got %v", errs)
	}
}

func TestRegisterHandler_Success(t *testing.T) {
	var insertedPending *db.PendingRegistration
	var insertedJob *queue.Job

	mockDb := &mock.Db{
		InsertPendingRegistrationFunc: func(p db.PendingRegistration) error {
			insertedPending = &p
			return nil
		},
		InsertJobFunc: func(job queue.Job) error {
			insertedJob = &job
			return nil
		},
	}
	app := newTestApp(mockDb)

	body := `{"name":"Ann","email":"ann@example.com","password":"secret1","password_confirmation":"secret1"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	app.RegisterHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	if insertedPending == nil {
		t.Fatal("expected a pending registration to be stored")
	}
	if insertedPending.Email != "ann@example.com" {
		t.Errorf("pending email = %q", insertedPending.Email)
	}
	if len(insertedPending.Otp) != 6 {
		t.Errorf("expected a 6 digit otp, got %q", insertedPending.Otp)
	}
	if insertedPending.Password == "secret1" {
		t.Error("password must be hashed before storage")
	}
	if !insertedPending.ExpiresAt.After(insertedPending.Created) {
		t.Error("pending registration must expire after creation")
	}

	if insertedJob == nil {
		t.Fatal("expected an otp email job to be enqueued")
	}
	if insertedJob.JobType != queue.JobTypeRegistrationOtp {
		t.Errorf("job type = %q", insertedJob.JobType)
	}

	var extra queue.PayloadOtpExtra
	if err := json.Unmarshal(insertedJob.PayloadExtra, &extra); err != nil {
		t.Fatalf("failed to decode payload extra: %v", err)
	}
	if extra.Otp != insertedPending.Otp {
		t.Error("job must carry the stored otp")
	}

	// The code never leaks into the response.
	if strings.Contains(rr.Body.String(), insertedPending.Otp) {
		t.Error("otp must not appear in the response body")
	}
}

func TestRegisterHandler_DuplicateJobIsSilent(t *testing.T) {
	mockDb := &mock.Db{
		InsertJobFunc: func(job queue.Job) error {
			return db.ErrConstraintUnique
		},
	}
	app := newTestApp(mockDb)

	body := `{"name":"Ann","email":"ann@example.com","password":"secret1","password_confirmation":"secret1"}`
	req := httptest.NewRequest("POST", "/api/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	app.RegisterHandler(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("a deduplicated job must still ack, got %d", rr.Code)
	}
}
