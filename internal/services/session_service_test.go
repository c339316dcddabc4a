package services

import (
	"testing"
	"time"

	"budgetbook/internal/models"
	"budgetbook/internal/testutil"
)

func TestSessionCreate(t *testing.T) {
	t.Run("issues_token_with_lifetime", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)
		user := testutil.CreateTestUser(t, db)

		before := time.Now()
		session, err := svc.Create(user.ID)
		testutil.AssertNoError(t, err)

		if session.Token == "" {
			t.Fatal("expected a session token")
		}
		if session.UserID != user.ID {
			t.Errorf("expected session owner %s, got %s", user.ID, session.UserID)
		}
		expectedExpiry := before.Add(time.Hour)
		if session.ExpireAt.Before(expectedExpiry.Add(-time.Minute)) || session.ExpireAt.After(expectedExpiry.Add(time.Minute)) {
			t.Errorf("expected expiry near %v, got %v", expectedExpiry, session.ExpireAt)
		}
	})

	t.Run("tokens_are_unique", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)
		user := testutil.CreateTestUser(t, db)

		a, err := svc.Create(user.ID)
		testutil.AssertNoError(t, err)
		b, err := svc.Create(user.ID)
		testutil.AssertNoError(t, err)

		if a.Token == b.Token {
			t.Error("expected distinct tokens for distinct sessions")
		}
	})
}

func TestSessionAuthenticate(t *testing.T) {
	t.Run("valid_session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)
		user := testutil.CreateTestUser(t, db)
		session := testutil.CreateTestSession(t, db, user.ID)

		got, err := svc.Authenticate(session.Token)
		testutil.AssertNoError(t, err)

		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
		if got.Email != user.Email {
			t.Errorf("expected email %s, got %s", user.Email, got.Email)
		}
	})

	t.Run("missing_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)

		_, err := svc.Authenticate("")
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})

	t.Run("unknown_token", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)

		_, err := svc.Authenticate("deadbeef")
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})

	t.Run("expired_session_is_rejected_and_deleted", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)
		user := testutil.CreateTestUser(t, db)
		session := testutil.CreateTestSessionWithExpiry(t, db, user.ID, time.Now().Add(-time.Minute))

		_, err := svc.Authenticate(session.Token)
		testutil.AssertAppError(t, err, "SESSION_EXPIRED")

		var count int64
		db.Model(&models.Session{}).Where("token = ?", session.Token).Count(&count)
		if count != 0 {
			t.Error("expected expired session record to be removed")
		}

		// Repeating the call is a plain unauthorized, not an error.
		_, err = svc.Authenticate(session.Token)
		testutil.AssertAppError(t, err, "UNAUTHORIZED")
	})
}

func TestSessionDelete(t *testing.T) {
	t.Run("removes_session", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)
		user := testutil.CreateTestUser(t, db)
		session := testutil.CreateTestSession(t, db, user.ID)

		testutil.AssertNoError(t, svc.Delete(session.Token))

		var count int64
		db.Model(&models.Session{}).Where("token = ?", session.Token).Count(&count)
		if count != 0 {
			t.Error("expected session to be deleted")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)
		user := testutil.CreateTestUser(t, db)
		session := testutil.CreateTestSession(t, db, user.ID)

		testutil.AssertNoError(t, svc.Delete(session.Token))
		testutil.AssertNoError(t, svc.Delete(session.Token))
		testutil.AssertNoError(t, svc.Delete(""))
	})
}

func TestDeleteExpired(t *testing.T) {
	t.Run("sweeps_only_expired_sessions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)
		user := testutil.CreateTestUser(t, db)

		fresh := testutil.CreateTestSession(t, db, user.ID)
		testutil.CreateTestSessionWithExpiry(t, db, user.ID, time.Now().Add(-time.Hour))
		testutil.CreateTestSessionWithExpiry(t, db, user.ID, time.Now().Add(-time.Second))

		n, err := svc.DeleteExpired()
		testutil.AssertNoError(t, err)
		if n != 2 {
			t.Errorf("expected 2 swept sessions, got %d", n)
		}

		var count int64
		db.Model(&models.Session{}).Where("token = ?", fresh.Token).Count(&count)
		if count != 1 {
			t.Error("expected fresh session to survive the sweep")
		}
	})

	t.Run("idempotent_on_empty_store", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewSessionService(db, time.Hour)

		n, err := svc.DeleteExpired()
		testutil.AssertNoError(t, err)
		if n != 0 {
			t.Errorf("expected 0 swept sessions, got %d", n)
		}
	})
}

func TestIsFresh(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewSessionService(db, time.Hour)
	user := testutil.CreateTestUser(t, db)

	fresh := testutil.CreateTestSession(t, db, user.ID)
	stale := testutil.CreateTestSessionWithExpiry(t, db, user.ID, time.Now().Add(-time.Minute))

	if !svc.IsFresh(fresh.Token) {
		t.Error("expected fresh session to pass the gate check")
	}
	if svc.IsFresh(stale.Token) {
		t.Error("expected stale session to fail the gate check")
	}
	if svc.IsFresh("") {
		t.Error("expected missing token to fail the gate check")
	}
	if svc.IsFresh("unknown-token") {
		t.Error("expected unknown token to fail the gate check")
	}
}
