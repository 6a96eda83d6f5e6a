package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/text/language"
)

func TestSignAndVerifyToken(t *testing.T) {
	token, err := SignToken("secret", "supportraise", "user-1", time.Hour)
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}
	claims, err := VerifyToken("secret", "supportraise", token)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want user-1", claims.Subject)
	}
}

func TestVerifyTokenRejects(t *testing.T) {
	good, _ := SignToken("secret", "supportraise", "user-1", time.Hour)
	expired, _ := SignToken("secret", "supportraise", "user-1", -time.Minute)
	otherIssuer, _ := SignToken("secret", "someone-else", "user-1", time.Hour)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1", Issuer: "supportraise"}).SignedString([]byte("secret"))
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "supportraise",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]struct {
		secret string
		token  string
	}{
		"wrong secret":  {secret: "other", token: good},
		"expired":       {secret: "secret", token: expired},
		"wrong issuer":  {secret: "secret", token: otherIssuer},
		"missing exp":   {secret: "secret", token: noExpiry},
		"none alg":      {secret: "secret", token: noneAlg},
		"garbage token": {secret: "secret", token: "a.b.c"},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := VerifyToken(tc.secret, "supportraise", tc.token); err == nil {
				t.Fatal("expected verification error")
			}
		})
	}
}

func TestSignTokenRequiresInputs(t *testing.T) {
	if _, err := SignToken("", "iss", "user-1", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := SignToken("secret", "iss", " ", time.Hour); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	token, _ := SignToken("secret", "supportraise", "user-1", time.Hour)
	var seen string
	h := AuthJWT("secret", "supportraise")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "Bearer " + token, status: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer " + token, status: http.StatusNoContent},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d", rr.Code, tc.status)
			}
			if tc.status == http.StatusUnauthorized {
				var body errorBody
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body.Error.Code != "auth_required" {
					t.Fatalf("code = %q, want auth_required", body.Error.Code)
				}
				if seen != "" {
					t.Fatal("handler must not run without auth")
				}
				return
			}
			if seen != "user-1" {
				t.Fatalf("user id = %q, want user-1", seen)
			}
		})
	}
}

func TestTokenLocale(t *testing.T) {
	resolver := NewLocaleResolver(language.MustParse("en-NZ"), nil)
	claims := NewClaims("supportraise", "user-1", time.Hour)
	claims.Locale = "de-DE"
	withLocale, err := SignClaims("secret", claims)
	if err != nil {
		t.Fatalf("SignClaims returned error: %v", err)
	}
	plain, _ := SignToken("secret", "supportraise", "user-1", time.Hour)

	var seen language.Tag
	h := I18N(resolver)(AuthJWT("secret", "supportraise")(TokenLocale(resolver)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = LocaleFromContext(r.Context())
		}),
	)))

	tests := []struct {
		name    string
		token   string
		headers map[string]string
		want    string
	}{
		{name: "claim beats accept-language", token: withLocale, headers: map[string]string{"Accept-Language": "en-US"}, want: "de"},
		{name: "x-locale beats claim", token: withLocale, headers: map[string]string{"X-Locale": "fr"}, want: "fr"},
		{name: "no claim keeps accept-language", token: plain, headers: map[string]string{"Accept-Language": "en-US"}, want: "en-US"},
		{name: "no claim no hints uses fallback", token: plain, want: "en-NZ"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
			req.Header.Set("Authorization", "Bearer "+tc.token)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if seen.String() != tc.want {
				t.Fatalf("locale = %q, want %q", seen, tc.want)
			}
			if got := rr.Header().Get("Content-Language"); got != tc.want {
				t.Fatalf("Content-Language = %q, want %q", got, tc.want)
			}
		})
	}
}
