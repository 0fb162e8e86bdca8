package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"stitchmart/internal/repos"
	"stitchmart/internal/services"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db := memdb(t)
	return services.NewAuthService(repos.NewUserRepo(db), []byte("test-secret"))
}

func TestSignUpIssuesVerifiableToken(t *testing.T) {
	auth := newAuth(t)

	token, err := auth.SignUp("A", "a@x.com", "p")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("no token issued")
	}

	tu, err := auth.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if tu.ID == "" {
		t.Fatal("token carries no user id")
	}
	// signup tokens bind the id only
	if tu.Email != "" || tu.Name != "" {
		t.Fatalf("signup token should not carry email/name: %+v", tu)
	}

	u, err := auth.ResolveUser(tu)
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "a@x.com" || u.Name != "A" {
		t.Fatalf("resolved wrong user: %+v", u)
	}
	if u.Hash == "p" || !strings.HasPrefix(u.Hash, "$2") {
		t.Fatalf("password must be stored as a bcrypt hash, got %q", u.Hash)
	}
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	auth := newAuth(t)
	if _, err := auth.SignUp("A", "a@x.com", "p"); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.SignUp("B", "a@x.com", "q"); !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
	// email uniqueness is case-insensitive
	if _, err := auth.SignUp("C", "A@X.COM", "q"); !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken for case variant, got %v", err)
	}
}

func TestLogIn(t *testing.T) {
	auth := newAuth(t)
	if _, err := auth.SignUp("A", "a@x.com", "correct-horse"); err != nil {
		t.Fatal(err)
	}

	if _, _, err := auth.LogIn("a@x.com", "wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds for wrong password, got %v", err)
	}
	if _, _, err := auth.LogIn("nobody@x.com", "correct-horse"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds for unknown email, got %v", err)
	}

	token, u, err := auth.LogIn("a@x.com", "correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	tu, err := auth.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	if tu.ID != u.ID || tu.Email != "a@x.com" || tu.Name != "A" {
		t.Fatalf("login token claims wrong: %+v", tu)
	}
}

func TestVerifyRejectsGarbageAndExpired(t *testing.T) {
	auth := newAuth(t)
	if _, err := auth.Verify("not-a-token"); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("want ErrBadToken, got %v", err)
	}

	// tokens from a different secret must not verify
	other := newAuth(t)
	tok, err := other.SignUp("A", "a@x.com", "p")
	if err != nil {
		t.Fatal(err)
	}
	otherSecret := services.NewAuthService(nil, []byte("different-secret"))
	if _, err := otherSecret.Verify(tok); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("want ErrBadToken for wrong secret, got %v", err)
	}

	// expired credential
	auth.TTL = -time.Hour
	expired, err := auth.SignUp("B", "b@x.com", "p")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Verify(expired); !errors.Is(err, services.ErrBadToken) {
		t.Fatalf("want ErrBadToken for expired token, got %v", err)
	}
}
