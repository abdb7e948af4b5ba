package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statusline/pkg/domain"
	"statusline/pkg/platform/validation"
)

func TestCreateProjectSponsorEmail(t *testing.T) {
	base := func() map[string]any {
		return map[string]any{"name": "Apollo", "masterProfileId": "u1"}
	}

	t.Run("omitted", func(t *testing.T) {
		in, vs := DecodeCreateProject(base())
		require.Empty(t, vs)
		assert.Nil(t, in.SponsorEmail)
		assert.Equal(t, []string{}, in.Objectives)
	})

	t.Run("empty string round-trips", func(t *testing.T) {
		payload := base()
		payload["sponsorEmail"] = ""
		in, vs := DecodeCreateProject(payload)
		require.Empty(t, vs)
		require.NotNil(t, in.SponsorEmail)
		assert.Equal(t, "", *in.SponsorEmail)

		p := NewProject("p1", in, time.Now().UTC())
		out, err := json.Marshal(p)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"sponsorEmail":""`)

		again, vs := DecodeCreateProject(out)
		require.Empty(t, vs)
		assert.Equal(t, in, again)
	})

	t.Run("malformed", func(t *testing.T) {
		payload := base()
		payload["sponsorEmail"] = "not-an-email"
		_, vs := DecodeCreateProject(payload)
		require.Len(t, vs, 1)
		assert.Equal(t, validation.RuleEmail, vs[0].Rule)
	})
}

func TestCreateProjectRules(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		field   string
		rule    string
	}{
		{"missing name", map[string]any{"masterProfileId": "u1"}, "name", validation.RuleRequired},
		{"blank name", map[string]any{"name": "  ", "masterProfileId": "u1"}, "name", validation.RuleRequired},
		{"long name", map[string]any{"name": strings.Repeat("é", 101), "masterProfileId": "u1"}, "name", validation.RuleMaxLength},
		{"missing profile", map[string]any{"name": "Apollo"}, "masterProfileId", validation.RuleRequired},
		{"profile with spaces", map[string]any{"name": "Apollo", "masterProfileId": "u 1"}, "masterProfileId", validation.RuleIdentifier},
		{"objectives wrong type", map[string]any{"name": "Apollo", "masterProfileId": "u1", "objectives": "ship"}, "objectives", validation.RuleType},
		{"objective too long", map[string]any{"name": "Apollo", "masterProfileId": "u1", "objectives": []string{"ok", strings.Repeat("x", 501)}}, "objectives[1]", validation.RuleMaxLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, vs := DecodeCreateProject(tt.payload)
			got := vs.ForField(tt.field)
			require.NotEmpty(t, got, "violations: %v", vs)
			assert.Equal(t, tt.rule, got[0].Rule)
		})
	}

	t.Run("name of exactly 100 characters", func(t *testing.T) {
		in, vs := DecodeCreateProject(map[string]any{"name": strings.Repeat("é", 100), "masterProfileId": "u1"})
		require.Empty(t, vs)
		assert.Equal(t, domain.ProfileID("u1"), in.MasterProfileID)
	})
}

func TestCreateProjectObjectivesKeepOrder(t *testing.T) {
	in, vs := DecodeCreateProject(map[string]any{
		"name":            "Apollo",
		"masterProfileId": "u1",
		"objectives":      []string{" Launch ", "", "Land", "Launch"},
	})
	require.Empty(t, vs)
	assert.Equal(t, []string{"Launch", "Land", "Launch"}, in.Objectives)
}

func TestUpdateProject(t *testing.T) {
	t.Run("absent fields stay absent", func(t *testing.T) {
		patch, vs := DecodeUpdateProject(`{"sponsorEmail":""}`)
		require.Empty(t, vs)
		out, err := json.Marshal(patch)
		require.NoError(t, err)
		assert.JSONEq(t, `{"sponsorEmail":""}`, string(out))
	})

	t.Run("present fields use create rules", func(t *testing.T) {
		_, vs := DecodeUpdateProject(map[string]any{"name": "", "sponsorEmail": "x@"})
		assert.True(t, vs.Has("name"))
		assert.True(t, vs.Has("sponsorEmail"))
	})

	t.Run("apply", func(t *testing.T) {
		p := &Project{ID: "p1", Name: "Apollo", MasterProfileID: "u1", Objectives: []string{}}
		patch, vs := DecodeUpdateProject(`{"name":"Artemis","objectives":["Return"]}`)
		require.Empty(t, vs)
		now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
		p.ApplyPatch(patch, now)
		assert.Equal(t, "Artemis", p.Name)
		assert.Equal(t, []string{"Return"}, p.Objectives)
		assert.Equal(t, now, p.UpdatedAt)
	})
}

func TestListProjectsQuery(t *testing.T) {
	req := ListProjectsRequest{MasterProfileID: validation.Some(" u1 "), Limit: validation.Some(100)}
	req.Normalize()
	q, vs := req.Validate()
	require.Empty(t, vs)
	assert.Equal(t, domain.ProfileID("u1"), q.MasterProfileID)
	assert.Equal(t, 100, q.Limit)

	_, vs = (&ListProjectsRequest{}).Validate()
	assert.True(t, vs.Has("masterProfileId"))
}
