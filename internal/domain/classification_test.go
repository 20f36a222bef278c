package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaledWeight(t *testing.T) {
	cls := &Classification{Weight: 100}

	assert.Equal(t, 100.0, cls.ScaledWeight(SchemeTag, true),
		"license source weights count in full")
	assert.Equal(t, 100.0, cls.ScaledWeight(SchemeOverdrive, false),
		"curated vendor vocabularies count in full")
	assert.Equal(t, 10.0, cls.ScaledWeight(SchemeTag, false),
		"secondary tag weights are compressed")
	assert.Equal(t, math.Sqrt(100), cls.ScaledWeight(SchemeLCSH, false))

	zero := &Classification{Weight: 0}
	assert.Equal(t, 0.0, zero.ScaledWeight(SchemeOverdrive, true))

	negative := &Classification{Weight: -5}
	assert.Equal(t, 0.0, negative.ScaledWeight(SchemeTag, false))
}

func TestTargetAgeReliability(t *testing.T) {
	assert.Equal(t, 10, TargetAgeReliability(SchemeOverdrive))
	assert.Equal(t, 10, TargetAgeReliability(SchemeAxis360Audience))
	assert.Equal(t, 5, TargetAgeReliability(SchemeGradeLevel))
	assert.Equal(t, 5, TargetAgeReliability(SchemeAgeRange))
	assert.Equal(t, 1, TargetAgeReliability(SchemeTag))
	assert.Equal(t, 1, TargetAgeReliability(SchemeDDC))
}

func TestSourcePriority(t *testing.T) {
	assert.Greater(t, SourcePriority(SourceStaff), SourcePriority(SourceOverdrive))
	assert.Greater(t, SourcePriority(SourceOverdrive), SourcePriority(SourceGutenberg))
	assert.Zero(t, SourcePriority("Unknown Vendor"))
}
