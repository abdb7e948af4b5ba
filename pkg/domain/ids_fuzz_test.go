//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseProjectID checks that parsing never panics and that accepted ids
// round-trip unchanged.
func FuzzParseProjectID(f *testing.F) {
	f.Add("")
	f.Add("c1")
	f.Add("550e8400-e29b-41d4-a716-446655440000")
	f.Add("'; DROP TABLE projects;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("c1\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseProjectID(input)
		if err == nil {
			roundTrip, err2 := ParseProjectID(id.String())
			if err2 != nil {
				t.Errorf("valid id failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("round-trip changed id value")
			}
		}

		if !utf8.ValidString(input) && err == nil {
			t.Error("non-UTF8 input was accepted")
		}
	})
}

// FuzzParseAllIDs ensures every identifier type accepts the same inputs.
func FuzzParseAllIDs(f *testing.F) {
	f.Add("c1")
	f.Add("")
	f.Add("with space")

	f.Fuzz(func(t *testing.T, input string) {
		_, errProject := ParseProjectID(input)
		_, errRisk := ParseRiskID(input)
		_, errDecision := ParseDecisionID(input)
		_, errProfile := ParseProfileID(input)

		accepted := errProject == nil
		if (errRisk == nil) != accepted || (errDecision == nil) != accepted || (errProfile == nil) != accepted {
			t.Error("inconsistent parsing across id types")
		}
	})
}
