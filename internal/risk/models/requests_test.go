package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"statusline/pkg/domain"
	"statusline/pkg/platform/validation"
)

// CreateRiskRequestSuite covers the create contract.
type CreateRiskRequestSuite struct {
	suite.Suite
}

func TestCreateRiskRequestSuite(t *testing.T) {
	suite.Run(t, new(CreateRiskRequestSuite))
}

func (s *CreateRiskRequestSuite) validPayload() map[string]any {
	return map[string]any{
		"projectId":   "c1",
		"description": "Vendor delay",
		"impact":      "2-week slip",
		"severity":    "HIGH",
	}
}

func (s *CreateRiskRequestSuite) TestMinimalRiskGetsDefaults() {
	in, vs := DecodeCreateRisk(s.validPayload())
	s.Require().Empty(vs)

	s.Equal(domain.ProjectID("c1"), in.ProjectID)
	s.Equal("Vendor delay", in.Description)
	s.Equal("2-week slip", in.Impact)
	s.Equal(domain.SeverityHigh, in.Severity)
	s.Equal(domain.RiskStatusOpen, in.Status)
	s.NotNil(in.Tags)
	s.Empty(in.Tags)
	s.Nil(in.Mitigation)
	s.Nil(in.ReviewDate)

	out, err := json.Marshal(in)
	s.Require().NoError(err)
	s.Contains(string(out), `"tags":[]`)
}

func (s *CreateRiskRequestSuite) TestMissingSeverity() {
	payload := s.validPayload()
	delete(payload, "severity")

	_, vs := DecodeCreateRisk(payload)
	s.Require().Len(vs, 1)
	s.Equal("severity", vs[0].Field)
	s.Equal(validation.KindShape, vs[0].Kind)
	s.Equal(validation.RuleRequired, vs[0].Rule)
}

func (s *CreateRiskRequestSuite) TestUnknownSeverityIsEnumViolation() {
	payload := s.validPayload()
	payload["severity"] = "high"

	_, vs := DecodeCreateRisk(payload)
	s.Require().Len(vs, 1)
	s.Equal(validation.KindEnum, vs[0].Kind)
	s.Contains(vs[0].Message, `"high"`)
}

func (s *CreateRiskRequestSuite) TestCollectsEveryViolation() {
	_, vs := DecodeCreateRisk(map[string]any{
		"projectId":   "c 1",
		"description": "   ",
		"severity":    "SEVERE",
	})

	s.True(vs.Has("projectId"))
	s.True(vs.Has("description"))
	s.True(vs.Has("impact"))
	s.True(vs.Has("severity"))
}

func (s *CreateRiskRequestSuite) TestLifecycleFieldsAreNotSettable() {
	s.Run("status other than OPEN", func() {
		payload := s.validPayload()
		payload["status"] = "RESOLVED"
		_, vs := DecodeCreateRisk(payload)
		s.Require().Len(vs, 1)
		s.Equal(validation.RuleNotSettable, vs[0].Rule)
	})

	s.Run("status OPEN is tolerated", func() {
		payload := s.validPayload()
		payload["status"] = "OPEN"
		_, vs := DecodeCreateRisk(payload)
		s.Empty(vs)
	})

	s.Run("resolvedAt", func() {
		payload := s.validPayload()
		payload["resolvedAt"] = "2026-03-01T09:00:00Z"
		_, vs := DecodeCreateRisk(payload)
		s.Require().Len(vs, 1)
		s.Equal("resolvedAt", vs[0].Field)
		s.Equal(validation.RuleNotSettable, vs[0].Rule)
	})
}

func (s *CreateRiskRequestSuite) TestNormalization() {
	payload := s.validPayload()
	payload["description"] = "  Vendor delay  "
	payload["tags"] = []string{" vendor", "legal", "vendor", ""}
	payload["reviewDate"] = "2026-04-01"
	payload["mitigation"] = ""

	in, vs := DecodeCreateRisk(payload)
	s.Require().Empty(vs)
	s.Equal("Vendor delay", in.Description)
	s.Equal([]string{"vendor", "legal"}, in.Tags)
	s.Require().NotNil(in.ReviewDate)
	s.True(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC).Equal(*in.ReviewDate))
	s.Require().NotNil(in.Mitigation)
	s.Equal("", *in.Mitigation)
}

func (s *CreateRiskRequestSuite) TestTypeAndNullErrors() {
	_, vs := DecodeCreateRisk(`{"projectId":"c1","description":"d","impact":"i","severity":3}`)
	s.Require().Len(vs, 1)
	s.Equal(validation.RuleType, vs[0].Rule)

	payload := s.validPayload()
	payload["mitigation"] = nil
	_, vs = DecodeCreateRisk(payload)
	s.Require().Len(vs, 1)
	s.Equal(validation.RuleNotNull, vs[0].Rule)

	_, vs = DecodeCreateRisk(`[]`)
	s.Require().Len(vs, 1)
	s.Equal(validation.RuleObject, vs[0].Rule)
}

// UpdateRiskRequestSuite covers the partial update contract.
type UpdateRiskRequestSuite struct {
	suite.Suite
}

func TestUpdateRiskRequestSuite(t *testing.T) {
	suite.Run(t, new(UpdateRiskRequestSuite))
}

func (s *UpdateRiskRequestSuite) TestEmptyPayloadIsEmptyPatch() {
	patch, vs := DecodeUpdateRisk(`{}`)
	s.Require().Empty(vs)
	s.True(patch.IsEmpty())

	out, err := json.Marshal(patch)
	s.Require().NoError(err)
	s.JSONEq(`{}`, string(out))
}

func (s *UpdateRiskRequestSuite) TestOmittedFieldsStayAbsent() {
	patch, vs := DecodeUpdateRisk(`{"severity":"CRITICAL"}`)
	s.Require().Empty(vs)

	out, err := json.Marshal(patch)
	s.Require().NoError(err)
	s.JSONEq(`{"severity":"CRITICAL"}`, string(out))
}

func (s *UpdateRiskRequestSuite) TestPresentFieldsUseCreateRules() {
	_, vs := DecodeUpdateRisk(`{"description":"","severity":"SEVERE","projectId":"a b","reviewDate":"2026-13-45"}`)
	s.True(vs.Has("description"))
	s.True(vs.Has("severity"))
	s.True(vs.Has("projectId"))
	s.True(vs.Has("reviewDate"))
}

func (s *UpdateRiskRequestSuite) TestStatusIsShapeCheckedOnly() {
	patch, vs := DecodeUpdateRisk(`{"status":"RESOLVED"}`)
	s.Require().Empty(vs)
	s.Equal(domain.RiskStatusResolved, *patch.Status)

	_, vs = DecodeUpdateRisk(`{"status":"CLOSED"}`)
	s.Require().Len(vs, 1)
	s.Equal(validation.KindEnum, vs[0].Kind)
}

func (s *UpdateRiskRequestSuite) TestTagsCanBeCleared() {
	patch, vs := DecodeUpdateRisk(`{"tags":[]}`)
	s.Require().Empty(vs)
	s.Require().NotNil(patch.Tags)
	s.Empty(*patch.Tags)
}

func (s *UpdateRiskRequestSuite) TestNullIsRejected() {
	_, vs := DecodeUpdateRisk(`{"severity":null}`)
	s.Require().Len(vs, 1)
	s.Equal(validation.RuleNotNull, vs[0].Rule)
}
