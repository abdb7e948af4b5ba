package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	decision "statusline/internal/decision/models"
	project "statusline/internal/project/models"
	risk "statusline/internal/risk/models"
	"statusline/pkg/domain"
	dErrors "statusline/pkg/domain-errors"
	"statusline/pkg/platform/validation"
)

func TestValidateDispatch(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want any
	}{
		{
			name: "risk create",
			req: Request{Entity: EntityRisk, Operation: OperationCreate, Payload: map[string]any{
				"projectId": "c1", "description": "Vendor delay", "impact": "2-week slip", "severity": "HIGH",
			}},
			want: &risk.RiskInput{},
		},
		{
			name: "decision create",
			req: Request{Entity: EntityDecision, Operation: OperationCreate,
				Payload: `{"projectId":"c1","description":"Adopt weekly cadence"}`},
			want: &decision.DecisionInput{},
		},
		{
			name: "project update",
			req:  Request{Entity: EntityProject, Operation: OperationUpdate, Payload: `{"sponsorEmail":""}`},
			want: &project.ProjectPatch{},
		},
		{
			name: "project list",
			req:  Request{Entity: EntityProject, Operation: OperationList, Payload: `{"masterProfileId":"mp-1"}`},
			want: &project.ListProjectsQuery{},
		},
		{
			name: "risk list",
			req:  Request{Entity: EntityRisk, Operation: OperationList, Payload: `{"projectId":"c1","limit":10}`},
			want: &risk.ListRisksQuery{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(tt.req)
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestValidateRiskCreateDefaults(t *testing.T) {
	got, err := Validate(Request{Entity: EntityRisk, Operation: OperationCreate, Payload: map[string]any{
		"projectId": "c1", "description": "Vendor delay", "impact": "2-week slip", "severity": "HIGH",
	}})
	require.NoError(t, err)
	in := got.(*risk.RiskInput)
	assert.Equal(t, domain.RiskStatusOpen, in.Status)
	assert.Equal(t, []string{}, in.Tags)
}

func TestValidateUnknownContract(t *testing.T) {
	_, err := Validate(Request{Entity: "task", Operation: "archive"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	vs, ok := validation.From(err)
	require.True(t, ok)
	assert.True(t, vs.Has("entity"))
	assert.True(t, vs.Has("operation"))
}

func TestValidateUpdateAgainstCurrentStatus(t *testing.T) {
	t.Run("strict refuses a skipped step", func(t *testing.T) {
		_, err := Validate(Request{
			Entity: EntityRisk, Operation: OperationUpdate,
			Payload: `{"status":"RESOLVED"}`, CurrentStatus: "OPEN",
			Policy: domain.TransitionPolicyStrict,
		})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})

	t.Run("permissive accepts it", func(t *testing.T) {
		got, err := Validate(Request{
			Entity: EntityRisk, Operation: OperationUpdate,
			Payload: `{"status":"RESOLVED"}`, CurrentStatus: "OPEN",
			Policy: domain.TransitionPolicyPermissive,
		})
		require.NoError(t, err)
		patch := got.(*risk.RiskPatch)
		require.NotNil(t, patch.Status)
		assert.Equal(t, domain.RiskStatusResolved, *patch.Status)
	})

	t.Run("without a current status only the shape is checked", func(t *testing.T) {
		_, err := Validate(Request{Entity: EntityRisk, Operation: OperationUpdate, Payload: `{"status":"RESOLVED"}`})
		assert.NoError(t, err)
	})

	t.Run("unknown current status", func(t *testing.T) {
		_, err := Validate(Request{
			Entity: EntityDecision, Operation: OperationUpdate,
			Payload: `{}`, CurrentStatus: "ARCHIVED",
		})
		vs, ok := validation.From(err)
		require.True(t, ok)
		assert.True(t, vs.HasKind(validation.KindEnum))
	})

	t.Run("deciding needs an outcome", func(t *testing.T) {
		_, err := Validate(Request{
			Entity: EntityDecision, Operation: OperationUpdate,
			Payload: `{"status":"DECIDED","decidedAt":"2026-03-01"}`, CurrentStatus: "PENDING",
		})
		vs, ok := validation.From(err)
		require.True(t, ok)
		assert.True(t, vs.Has("outcome"))
	})

	t.Run("projects have no status", func(t *testing.T) {
		_, err := Validate(Request{Entity: EntityProject, Operation: OperationUpdate, Payload: `{}`, CurrentStatus: "OPEN"})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
