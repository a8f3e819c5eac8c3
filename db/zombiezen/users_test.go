package zombiezen

import (
	"errors"
	"testing"
	"time"

	"github.com/grouplet/grouplet/db"
)

func insertTestUser(t *testing.T, testDB *Db, user db.User) *db.User {
	t.Helper()

	pending := db.PendingRegistration{
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Password:  user.Password,
		Otp:       "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	if err := testDB.InsertPendingRegistration(pending); err != nil {
		t.Fatalf("InsertPendingRegistration failed: %v", err)
	}

	stored, err := testDB.GetPendingRegistration(user.Email, "123456")
	if err != nil {
		t.Fatalf("GetPendingRegistration failed: %v", err)
	}
	if stored == nil {
		t.Fatal("expected pending registration, got nil")
	}

	created, err := testDB.ConfirmRegistration(stored.ID, user)
	if err != nil {
		t.Fatalf("ConfirmRegistration failed: %v", err)
	}
	return created
}

func TestConfirmRegistrationCreatesVerifiedUser(t *testing.T) {
	testDB := newTestDB(t)

	created := insertTestUser(t, testDB, db.User{
		ID:       "u1",
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "5551234",
		Password: "hashed",
	})

	if !created.Verified {
		t.Error("expected confirmed user to be verified")
	}
	if created.Email != "alice@example.com" {
		t.Errorf("expected email alice@example.com, got %q", created.Email)
	}

	// the consumed pending row must be gone
	pending, err := testDB.GetPendingRegistration("alice@example.com", "123456")
	if err != nil {
		t.Fatalf("GetPendingRegistration failed: %v", err)
	}
	if pending != nil {
		t.Error("expected pending registration to be deleted after confirmation")
	}
}

func TestConfirmRegistrationDuplicateEmail(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{
		ID:       "u1",
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "hashed",
	})

	pending := db.PendingRegistration{
		Email:     "alice@example.com",
		Name:      "Impostor",
		Password:  "hashed",
		Otp:       "654321",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}
	if err := testDB.InsertPendingRegistration(pending); err != nil {
		t.Fatalf("InsertPendingRegistration failed: %v", err)
	}
	stored, err := testDB.GetPendingRegistration("alice@example.com", "654321")
	if err != nil || stored == nil {
		t.Fatalf("GetPendingRegistration failed: %v", err)
	}

	_, err = testDB.ConfirmRegistration(stored.ID, db.User{
		ID:       "u2",
		Name:     "Impostor",
		Email:    "alice@example.com",
		Password: "hashed",
	})
	if !errors.Is(err, db.ErrConstraintUnique) {
		t.Errorf("expected ErrConstraintUnique, got %v", err)
	}

	// the savepoint must have rolled back the delete
	stored, err = testDB.GetPendingRegistration("alice@example.com", "654321")
	if err != nil {
		t.Fatalf("GetPendingRegistration failed: %v", err)
	}
	if stored == nil {
		t.Error("expected pending row to survive a failed confirmation")
	}
}

func TestGetPendingRegistrationExpired(t *testing.T) {
	testDB := newTestDB(t)

	pending := db.PendingRegistration{
		Email:     "late@example.com",
		Password:  "hashed",
		Otp:       "111111",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := testDB.InsertPendingRegistration(pending); err != nil {
		t.Fatalf("InsertPendingRegistration failed: %v", err)
	}

	stored, err := testDB.GetPendingRegistration("late@example.com", "111111")
	if err != nil {
		t.Fatalf("GetPendingRegistration failed: %v", err)
	}
	if stored != nil {
		t.Error("expected expired pending registration to be ignored")
	}
}

func TestGetPendingRegistrationNewestWins(t *testing.T) {
	testDB := newTestDB(t)

	for _, otp := range []string{"111111", "222222"} {
		err := testDB.InsertPendingRegistration(db.PendingRegistration{
			Email:     "multi@example.com",
			Password:  "hashed",
			Otp:       otp,
			ExpiresAt: time.Now().Add(5 * time.Minute),
		})
		if err != nil {
			t.Fatalf("InsertPendingRegistration failed: %v", err)
		}
	}

	// both OTPs remain valid, retrieval is keyed on (email, otp)
	for _, otp := range []string{"111111", "222222"} {
		stored, err := testDB.GetPendingRegistration("multi@example.com", otp)
		if err != nil {
			t.Fatalf("GetPendingRegistration failed: %v", err)
		}
		if stored == nil {
			t.Errorf("expected pending row for otp %s", otp)
		}
	}
}

func TestGetUserByEmailOrPhone(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{
		ID:       "u1",
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "5551234",
		Password: "hashed",
	})

	tests := []struct {
		name  string
		email string
		phone string
		found bool
	}{
		{"by email", "alice@example.com", "", true},
		{"by phone", "other@example.com", "5551234", true},
		{"empty phone does not match", "other@example.com", "", false},
		{"no match", "other@example.com", "5559999", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user, err := testDB.GetUserByEmailOrPhone(tc.email, tc.phone)
			if err != nil {
				t.Fatalf("GetUserByEmailOrPhone failed: %v", err)
			}
			if (user != nil) != tc.found {
				t.Errorf("found = %v, want %v", user != nil, tc.found)
			}
		})
	}
}

func TestUpdatePassword(t *testing.T) {
	testDB := newTestDB(t)

	insertTestUser(t, testDB, db.User{
		ID:       "u1",
		Email:    "alice@example.com",
		Password: "old-hash",
	})

	if err := testDB.UpdatePassword("u1", "new-hash"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}

	user, err := testDB.GetUserById("u1")
	if err != nil {
		t.Fatalf("GetUserById failed: %v", err)
	}
	if user.Password != "new-hash" {
		t.Errorf("expected updated password hash, got %q", user.Password)
	}

	if err := testDB.UpdatePassword("missing", "x"); !errors.Is(err, db.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
