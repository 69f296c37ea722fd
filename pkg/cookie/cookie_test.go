package cookie

import (
	"testing"
	"time"

	"github.com/sensesdx/portalkit/core"
)

func TestJarSetGetShouldRoundTripValues(t *testing.T) {
	jar := NewJar()

	cases := []struct {
		name  string
		value string
	}{
		{"accessToken", "tok123"},
		{"user", `{"id":"u1","name":"Mike","email":"m@x.com","role":"field_executive"}`},
		{"plain", "hello world"},
		{"reserved", "a=b; c=d%20&e"},
	}

	for _, tc := range cases {
		jar.Set(tc.name, tc.value, core.CookieOptions{Path: "/"})

		got, ok := jar.Get(tc.name)
		if !ok {
			t.Fatalf("Get(%q) missing after Set", tc.name)
		}
		if got != tc.value {
			t.Errorf("Get(%q) = %q, want %q", tc.name, got, tc.value)
		}
	}
}

func TestJarGetShouldFindValuesWrittenWithoutEncoding(t *testing.T) {
	jar := NewJar()

	// a hand-written document.cookie assignment skips encoding
	jar.SetRaw("accessToken", "tok123")

	got, ok := jar.Get("accessToken")
	if !ok {
		t.Fatal("Get should match a raw-written cookie by name")
	}
	if got != "tok123" {
		t.Errorf("Get = %q, want tok123", got)
	}
}

func TestJarGetNonExistentShouldReportMissing(t *testing.T) {
	jar := NewJar()

	if _, ok := jar.Get("nope"); ok {
		t.Error("Get on an empty jar should report missing")
	}
}

func TestJarRemoveShouldExpireImmediately(t *testing.T) {
	jar := NewJar()

	jar.Set("accessToken", "tok123", core.CookieOptions{Path: "/"})
	jar.Remove("accessToken", "/")

	if _, ok := jar.Get("accessToken"); ok {
		t.Error("cookie should be gone after Remove")
	}
}

func TestJarNegativeMaxAgeShouldExpireImmediately(t *testing.T) {
	jar := NewJar()

	jar.Set("accessToken", "tok123", core.CookieOptions{Path: "/"})
	jar.Set("accessToken", "", core.CookieOptions{MaxAge: -1, Path: "/"})

	if _, ok := jar.Get("accessToken"); ok {
		t.Error("cookie should be gone after negative max-age write")
	}
}

func TestJarExpiredCookieShouldNotBeReturned(t *testing.T) {
	jar := NewJar()

	jar.Set("short", "v", core.CookieOptions{MaxAge: time.Millisecond})
	time.Sleep(5 * time.Millisecond)

	if _, ok := jar.Get("short"); ok {
		t.Error("expired cookie should not be returned")
	}
}

func TestDecodeShouldTolerateUnencodedValues(t *testing.T) {
	// "%zz" is not valid escaping; a raw value must come back as written
	if got := Decode("%zz-raw"); got != "%zz-raw" {
		t.Errorf("Decode(%%zz-raw) = %q, want the raw value", got)
	}
	if got := Decode(Encode(`{"a":1}`)); got != `{"a":1}` {
		t.Errorf("Decode(Encode(json)) = %q, want round trip", got)
	}
}
