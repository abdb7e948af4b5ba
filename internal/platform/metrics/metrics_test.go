package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"statusline/pkg/platform/validation"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncrementCreated("risk")
	m.IncrementCreated("risk")
	m.IncrementDeleted("project")
	m.IncrementTransition("risk", "OPEN", "MONITORING")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RecordsCreated.WithLabelValues("risk")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RecordsDeleted.WithLabelValues("project")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("risk", "OPEN", "MONITORING")))
}

func TestObserveViolationsCountsKindsOnce(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveViolations("risk", "create", validation.Violations{
		validation.Shape("description", validation.RuleRequired, "is required"),
		validation.Shape("impact", validation.RuleRequired, "is required"),
		{Field: "severity", Kind: validation.KindEnum, Rule: validation.RuleEnum, Message: "bad"},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("risk", "create", "shape")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("risk", "create", "enum")))
}

func TestObserveDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveDuration("decision", "update", time.Now())

	count, err := testutil.GatherAndCount(reg, "statusline_operation_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
