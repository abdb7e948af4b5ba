package models

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCreateProjectIdempotence(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("create output round-trips unchanged", prop.ForAll(
		func(name, sponsor string, email string, objectives []string) bool {
			payload := map[string]any{
				"name":            name,
				"masterProfileId": "u1",
				"sponsorName":     sponsor,
				"sponsorEmail":    email,
				"objectives":      objectives,
			}
			first, vs := DecodeCreateProject(payload)
			if len(vs) > 0 {
				return false
			}
			encoded, err := json.Marshal(first)
			if err != nil {
				return false
			}
			second, vs := DecodeCreateProject(encoded)
			return len(vs) == 0 && reflect.DeepEqual(first, second)
		},
		gen.AlphaString().Map(func(s string) string { return " P" + s }).SuchThat(func(s string) bool { return len(s) <= 100 }),
		gen.AlphaString(),
		gen.OneConstOf("", "sponsor@example.com", " cfo@example.org "),
		gen.SliceOf(gen.OneConstOf("Launch", " ", "Land "), reflect.TypeOf("")),
	))

	properties.TestingRun(t)
}
