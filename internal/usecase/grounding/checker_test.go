package grounding

import (
	"testing"

	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
)

func testDigest() entity.FactualDigest {
	return entity.FactualDigest{
		Global: map[string]entity.PrimitiveValue{
			"accuracy":  entity.FloatValue(0.6875),
			"test_size": entity.IntValue(1852),
		},
		Attributes: []entity.AttributeDigest{
			{
				Attribute: entity.GroupRace,
				Rows: []entity.GroupRateRow{
					{GroupValue: "African-American", N: 934, RateSet: entity.RateSet{FPR: 0.4231, TPR: 0.7}},
				},
			},
			{
				Attribute: entity.GroupSex,
				Rows: []entity.GroupRateRow{
					{GroupValue: "Female", N: 357, RateSet: entity.RateSet{FNR: 0.3125}},
				},
			},
		},
	}
}

func TestNumbersIn(t *testing.T) {
	got := NumbersIn("FPR was 0.4231 (42.31%) across 934 people; 3 bullets, -0,5 too.")
	assert.Equal(t, []string{"0.4231", "42.31%", "934", "3", "-0,5"}, got)
}

func TestCheckDigest_Grounded(t *testing.T) {
	c := New(logger.NewNop())
	report := entity.AgentReport{
		Role: entity.AgentRoleRace,
		Text: "- African-American (N=934) has FPR 0.4231, i.e. 42.3%.\n- Accuracy is 0.69 over 1852 cases.\n- 1) TPR 0.7000",
	}

	result := c.CheckDigest(report, testDigest())

	assert.True(t, result.Grounded)
	assert.Equal(t, entity.AgentRoleRace, result.Role)
	assert.Equal(t, 6, result.Checked)
	assert.Empty(t, result.Ungrounded)
}

func TestCheckDigest_FlagsInventedNumbers(t *testing.T) {
	c := New(logger.NewNop())
	report := entity.AgentReport{
		Role: entity.AgentRoleRace,
		Text: "FPR is 0.5123 and FNR for women is 0.3125; 0.5123 again.",
	}

	result := c.CheckDigest(report, testDigest())

	assert.False(t, result.Grounded)
	// the sex table was not part of the race prompt
	assert.Equal(t, []string{"0.5123", "0.3125"}, result.Ungrounded)
	assert.Equal(t, 3, result.Checked)
}

func TestCheckSources_Supervisor(t *testing.T) {
	c := New(logger.NewNop())
	sources := []entity.AgentReport{
		{Role: entity.AgentRoleRace, Text: "FPR 0.4231"},
		{Role: entity.AgentRoleSex, Text: "FNR 0.3125"},
		{Role: entity.AgentRolePerformance, Text: "accuracy 0.6875"},
	}

	ok := c.CheckSources(entity.AgentReport{Role: entity.AgentRoleSupervisor, Text: "(1) accuracy 0.69; FPR 42.31%"}, sources...)
	assert.True(t, ok.Grounded)

	bad := c.CheckSources(entity.AgentReport{Role: entity.AgentRoleSupervisor, Text: "accuracy 0.91"}, sources...)
	assert.False(t, bad.Grounded)
	assert.Equal(t, []string{"0.91"}, bad.Ungrounded)
}
