package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fixedNow() is Sunday, June 15, 2025

func TestAvailabilityScore_ImmediateBands(t *testing.T) {
	now := fixedNow()

	assert.Equal(t, 100, availabilityScore("today", now))
	assert.Equal(t, 100, availabilityScore("Available immediately", now))
	assert.Equal(t, 95, availabilityScore("Tomorrow", now))
}

func TestAvailabilityScore_RelativeBands(t *testing.T) {
	now := fixedNow()

	assert.Equal(t, 80, availabilityScore("this week", now))
	assert.Equal(t, 60, availabilityScore("next week", now))
	assert.Equal(t, 50, availabilityScore("within 2 weeks", now))
	assert.Equal(t, 50, availabilityScore("within two weeks", now))
	assert.Equal(t, 40, availabilityScore("next month", now))
	assert.Equal(t, 35, availabilityScore("within a month", now))
	assert.Equal(t, 25, availabilityScore("within 2 months", now))
	assert.Equal(t, 15, availabilityScore("within 3 months", now))
}

func TestAvailabilityScore_NamedWeekday(t *testing.T) {
	now := fixedNow()

	// two days out from Sunday
	assert.Equal(t, 80, availabilityScore("next Tuesday", now))
	// same weekday as today means a full week out
	assert.Equal(t, 30, availabilityScore("Sunday", now))
	assert.Equal(t, 40, availabilityScore("Saturday", now))
}

func TestAvailabilityScore_NamedMonth(t *testing.T) {
	now := fixedNow()

	// three months out from June
	assert.Equal(t, 30, availabilityScore("early September", now))
	// same month as now means a year out, floored
	assert.Equal(t, 10, availabilityScore("June", now))
}

func TestAvailabilityScore_MultipleNamesScoreSoonest(t *testing.T) {
	now := fixedNow()

	// Tuesday is two days out, Thursday four; the sooner one wins
	assert.Equal(t, 80, availabilityScore("Tuesday or Thursday", now))
	assert.Equal(t, 80, availabilityScore("Thursday or Tuesday", now))
	// August is two months out from June, December six
	assert.Equal(t, 40, availabilityScore("August or December", now))
	assert.Equal(t, 40, availabilityScore("December or August", now))
}

func TestAvailabilityScore_MultipleNamesDeterministic(t *testing.T) {
	now := fixedNow()

	for i := 0; i < 500; i++ {
		assert.Equal(t, 80, availabilityScore("Tuesday or Thursday", now))
		assert.Equal(t, 40, availabilityScore("August or December", now))
	}
}

func TestAvailabilityScore_EmptyAndUnparseable(t *testing.T) {
	now := fixedNow()

	assert.Equal(t, 0, availabilityScore("", now))
	assert.Equal(t, 0, availabilityScore("   ", now))
	assert.Equal(t, 20, availabilityScore("call the front desk", now))
}
