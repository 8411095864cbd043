package eligibility

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orgModels "rinkside/internal/org/models"
	"rinkside/pkg/dates"
	dErrors "rinkside/pkg/domain-errors"
)

func TestCheckAgeIsSeasonMinusBirthYear(t *testing.T) {
	c := New(orgModels.DefaultDivisions())

	// Born June 2012, season 2026: age 14 regardless of birth month.
	verdict, err := c.Check(dates.New(2012, time.June, 1), 2026, "U15")
	require.NoError(t, err)
	assert.Equal(t, 14, verdict.ComputedAge)
	assert.True(t, verdict.Eligible)
}

func TestCheckBoundsInclusive(t *testing.T) {
	c := New([]orgModels.Division{{Code: "U15", Name: "Under 15", MinAge: 12, MaxAge: 15}})

	cases := []struct {
		name     string
		birth    int
		eligible bool
	}{
		{"below minimum", 2016, false}, // age 10
		{"at minimum", 2014, true},     // age 12
		{"at maximum", 2011, true},     // age 15
		{"above maximum", 2010, false}, // age 16
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := c.Check(dates.New(tc.birth, time.January, 15), 2026, "U15")
			require.NoError(t, err)
			assert.Equal(t, tc.eligible, verdict.Eligible)
			if !tc.eligible {
				assert.NotEmpty(t, verdict.Reason)
			}
		})
	}
}

func TestCheckIneligibleIsNotAnError(t *testing.T) {
	c := New(orgModels.DefaultDivisions())

	verdict, err := c.Check(dates.New(2000, time.May, 5), 2026, "U10")
	require.NoError(t, err)
	assert.False(t, verdict.Eligible)
	assert.Equal(t, 26, verdict.ComputedAge)
	assert.Equal(t, 8, verdict.AllowedMin)
	assert.Equal(t, 10, verdict.AllowedMax)
}

func TestCheckUnknownDivision(t *testing.T) {
	c := New(orgModels.DefaultDivisions())

	_, err := c.Check(dates.New(2012, time.June, 1), 2026, "U99")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestCheckDivisionCodeCaseInsensitive(t *testing.T) {
	c := New(orgModels.DefaultDivisions())

	verdict, err := c.Check(dates.New(2012, time.June, 1), 2026, "u15")
	require.NoError(t, err)
	assert.Equal(t, "U15", verdict.DivisionCode)
}
