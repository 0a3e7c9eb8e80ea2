package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedsnap/internal/domain"
	"wedsnap/internal/validate"
)

func TestScalars(t *testing.T) {
	_, ok := validate.Email("ayesha@wedsnap.pk")
	assert.True(t, ok)
	_, ok = validate.Email("not-an-email")
	assert.False(t, ok)

	_, ok = validate.ID("photo-standard")
	assert.True(t, ok)
	_, ok = validate.ID("../etc")
	assert.False(t, ok)

	_, ok = validate.Q("<script>")
	assert.False(t, ok)
	q, ok := validate.Q("  mehndi drone ")
	assert.True(t, ok)
	assert.Equal(t, "mehndi drone", q)

	city, ok := validate.City(" Lahore ")
	assert.True(t, ok)
	assert.Equal(t, "Lahore", city)

	st, ok := validate.ServiceType("Both")
	assert.True(t, ok)
	assert.Equal(t, domain.ServiceBoth, st)
	_, ok = validate.ServiceType("audio")
	assert.False(t, ok)

	assert.True(t, validate.Password("Passw0rd!"))
	assert.False(t, validate.Password("password"))
}

type sample struct {
	Service domain.ServiceType `validate:"required,servicetype"`
	Gig     string             `validate:"omitempty,slug"`
	Date    string             `validate:"required,isodate"`
	Email   string             `validate:"required,email"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, validate.Struct(sample{Service: domain.ServicePhotography, Date: "2026-12-01", Email: "a@b.pk"}))

	err := validate.Struct(sample{Service: "audio", Gig: "bad id!", Date: "01/12/2026"})
	require.Error(t, err)
	fields := validate.Fields(err)
	assert.Equal(t, "servicetype", fields["Service"])
	assert.Equal(t, "slug", fields["Gig"])
	assert.Equal(t, "isodate", fields["Date"])
	assert.Equal(t, "required", fields["Email"])

	assert.Nil(t, validate.Fields(assert.AnError))
}
