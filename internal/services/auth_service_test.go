package services

import (
	"strings"
	"testing"
	"time"

	"github.com/crestlinehq/crestline/internal/models"
)

type stubAuthStore struct {
	users map[string]*models.User
}

func newStubAuthStore() *stubAuthStore {
	return &stubAuthStore{users: map[string]*models.User{}}
}

func (s *stubAuthStore) FindUserByEmail(email string) (*models.User, error) {
	return s.users[strings.ToLower(email)], nil
}

func (s *stubAuthStore) AddUser(u *models.User) error {
	s.users[strings.ToLower(u.Email)] = u
	return nil
}

type signedToken struct {
	uid   string
	email string
	admin bool
	ttl   time.Duration
}

func newTestAuthService() (*AuthService, *stubAuthStore, *[]signedToken) {
	store := newStubAuthStore()
	tokens := &[]signedToken{}
	svc := NewAuthService(store, func(uid, email string, admin bool, ttl time.Duration) (string, error) {
		*tokens = append(*tokens, signedToken{uid, email, admin, ttl})
		return "tok-" + uid, nil
	})
	return svc, store, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, store, tokens := newTestAuthService()

	reg, err := svc.Register("asha@example.com", "s3cret", "Asha")
	if err != nil {
		t.Fatal(err)
	}
	if reg.Token == "" || reg.UserID == "" {
		t.Fatalf("register result = %+v", reg)
	}
	if reg.Admin {
		t.Fatal("registration must never grant admin")
	}

	u := store.users["asha@example.com"]
	if u == nil || u.Name != "Asha" {
		t.Fatalf("stored user = %+v", u)
	}
	if string(u.PassHash) == "s3cret" {
		t.Fatal("password stored in the clear")
	}

	login, err := svc.Login("asha@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if login.UserID != reg.UserID {
		t.Fatalf("login uid = %q, want %q", login.UserID, reg.UserID)
	}
	last := (*tokens)[len(*tokens)-1]
	if last.admin || last.email != "asha@example.com" {
		t.Fatalf("token claims = %+v", last)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService()
	if _, err := svc.Register("asha@example.com", "s3cret", "Asha"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Register("asha@example.com", "other", "Asha Again")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService()
	for _, tc := range []struct{ email, password string }{
		{"", "s3cret"},
		{"asha@example.com", ""},
		{"  ", "  "},
	} {
		_, err := svc.Register(tc.email, tc.password, "Asha")
		if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
			t.Fatalf("Register(%q, %q) = %v, want invalid", tc.email, tc.password, err)
		}
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()
	if _, err := svc.Register("asha@example.com", "s3cret", "Asha"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Login("asha@example.com", "wrong")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestAuthService()
	_, err := svc.Login("ghost@example.com", "whatever")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

// Admin accounts come from the bootstrap binary; login must carry the flag
// through to the token.
func TestLoginAdminFlag(t *testing.T) {
	svc, store, tokens := newTestAuthService()
	if _, err := svc.Register("ops@example.com", "s3cret", "Ops"); err != nil {
		t.Fatal(err)
	}
	store.users["ops@example.com"].Admin = true

	res, err := svc.Login("ops@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Admin {
		t.Fatal("login result must carry admin flag")
	}
	last := (*tokens)[len(*tokens)-1]
	if !last.admin {
		t.Fatal("token must carry admin claim")
	}
	if last.ttl != svc.TokenTTL() {
		t.Fatalf("token ttl = %v, want %v", last.ttl, svc.TokenTTL())
	}
}
