package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Document", KeyDocument, "index.html", Document("index.html")},
		{"Phase", KeyPhase, "before", Phase("before")},
		{"Instance", KeyInstance, "vendor", Instance("vendor")},
		{"Plugin", KeyPlugin, "refhost", Plugin("refhost")},
		{"Source", KeySource, "src/a.js", Source("src/a.js")},
		{"Dest", KeyDest, "a.js", Dest("a.js")},
		{"URL", KeyURL, "/a.js?h", URL("/a.js?h")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			// Key drift would break log ingestion schemas.
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

// TestErrorHelper verifies nil and non-nil error rendering.
func TestErrorHelper(t *testing.T) {
	if v := Error(nil); v.Key != KeyError || v.Value.String() != "" {
		t.Fatalf("Error(nil) = %v", v)
	}
	if v := Error(errors.New("boom")); v.Value.String() != "boom" {
		t.Fatalf("Error(boom) = %v", v)
	}
}
