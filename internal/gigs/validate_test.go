package gigs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/gigs/reconcile"
	"github.com/corourke/Gigmanagerfigmamake-sub000/internal/models"
)

func validForm() *GigForm {
	start := time.Date(2026, 6, 12, 19, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	return &GigForm{
		Title:    "Summer Festival",
		StartsAt: start,
		EndsAt:   &end,
		Status:   "booked",
	}
}

func TestValidateCore_TitleRequired(t *testing.T) {
	form := validForm()
	form.Title = ""
	_, err := ValidateCore(form)
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestValidateCore_EndBeforeStartRejected(t *testing.T) {
	form := validForm()
	end := form.StartsAt.Add(-time.Hour)
	form.EndsAt = &end
	_, err := ValidateCore(form)
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ends_at", verr.Field)
}

func TestValidateCore_EndEqualToStartRejected(t *testing.T) {
	form := validForm()
	end := form.StartsAt
	form.EndsAt = &end
	_, err := ValidateCore(form)
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestValidateCore_OpenEndedAllowed(t *testing.T) {
	form := validForm()
	form.EndsAt = nil
	core, err := ValidateCore(form)
	require.NoError(t, err)
	assert.Nil(t, core.EndsAt)
}

func TestValidateCore_StatusDefaultsToDateHold(t *testing.T) {
	form := validForm()
	form.Status = ""
	core, err := ValidateCore(form)
	require.NoError(t, err)
	assert.Equal(t, models.GigDateHold, core.Status)
}

func TestValidateCore_UnknownStatusRejected(t *testing.T) {
	form := validForm()
	form.Status = "tentative"
	_, err := ValidateCore(form)
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestValidateCore_AmountPaid(t *testing.T) {
	form := validForm()
	form.AmountPaid = "1500.25"
	core, err := ValidateCore(form)
	require.NoError(t, err)
	require.NotNil(t, core.AmountPaidCents)
	assert.Equal(t, int64(150025), *core.AmountPaidCents)

	form.AmountPaid = ""
	core, err = ValidateCore(form)
	require.NoError(t, err)
	assert.Nil(t, core.AmountPaidCents)

	form.AmountPaid = "-5"
	_, err = ValidateCore(form)
	var verr *reconcile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount_paid", verr.Field)
	assert.Equal(t, "must be a positive number", verr.Message)

	form.AmountPaid = "abc"
	_, err = ValidateCore(form)
	require.ErrorAs(t, err, &verr)
}
