package user

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateInput() CreateInput {
	return CreateInput{
		Name:      "ana",
		Email:     "ana@gmail.com",
		Phone:     "1122334455",
		Gender:    GenderFemale,
		Birthdate: "1990-05-01",
	}
}

func TestServiceCreate_NormalizesAndPersists(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	in := validCreateInput()
	in.Name = "  joHN "
	in.Email = "Foo@GMAIL.com"
	in.Gender = GenderMale

	created, err := svc.Create(in)
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, "John", created.Name)
	assert.Equal(t, "foo@gmail.com", created.Email)
	assert.Equal(t, "1122334455", created.Phone)
	assert.Equal(t, "1990-05-01", created.Birthdate.String())
	assert.False(t, created.CreatedAt.IsZero())
}

func TestServiceCreate_AggregatesFieldErrors(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	in := validCreateInput()
	in.Email = "foo@unknown.com"
	in.Phone = "0123"

	_, err := svc.Create(in)
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve, 2)
	fields := []string{ve[0].Field, ve[1].Field}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
}

func TestServiceCreate_GenderOtherRules(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	in := validCreateInput()
	in.Gender = GenderOther
	in.GenderOther = strPtr("")
	_, err := svc.Create(in)
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "gender_other", ve[0].Field)

	in.GenderOther = strPtr(" Bob ")
	created, err := svc.Create(in)
	require.NoError(t, err)
	require.NotNil(t, created.GenderOther)
	assert.Equal(t, "Bob", *created.GenderOther)

	in2 := validCreateInput()
	in2.Email = "otra@gmail.com"
	in2.Gender = GenderFemale
	in2.GenderOther = strPtr("ignored")
	created, err = svc.Create(in2)
	require.NoError(t, err)
	assert.Nil(t, created.GenderOther)
}

func TestServiceCreate_DuplicateEmail(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	_, err := svc.Create(validCreateInput())
	require.NoError(t, err)

	in := validCreateInput()
	in.Name = "otra persona"
	_, err = svc.Create(in)
	assert.True(t, errors.Is(err, ErrEmailExists))
}

func TestServiceUpdate_OnlyPhone(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	created, err := svc.Create(validCreateInput())
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, UpdateInput{Phone: strPtr("1987654321")})
	require.NoError(t, err)
	assert.Equal(t, "1987654321", updated.Phone)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.Gender, updated.Gender)
	assert.Equal(t, created.Birthdate.String(), updated.Birthdate.String())
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	// invalid phone is the only thing re-validated
	_, err = svc.Update(created.ID, UpdateInput{Phone: strPtr("0123")})
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve, 1)
	assert.Equal(t, "phone", ve[0].Field)
}

func TestServiceUpdate_GenderOtherAloneUsesStoredGender(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	in := validCreateInput()
	in.Gender = GenderOther
	in.GenderOther = strPtr("fluid")
	created, err := svc.Create(in)
	require.NoError(t, err)

	// stored gender is "other": a lone gender_other update is re-validated
	// against it and kept
	updated, err := svc.Update(created.ID, UpdateInput{
		GenderOther: OptionalString{Set: true, Value: strPtr(" Bob ")},
	})
	require.NoError(t, err)
	require.NotNil(t, updated.GenderOther)
	assert.Equal(t, "Bob", *updated.GenderOther)

	// blanking it while gender stays "other" is rejected
	_, err = svc.Update(created.ID, UpdateInput{
		GenderOther: OptionalString{Set: true, Value: strPtr("  ")},
	})
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "gender_other", ve[0].Field)

	// stored gender not "other": the supplied value is silently dropped
	in2 := validCreateInput()
	in2.Email = "ana2@gmail.com"
	created2, err := svc.Create(in2)
	require.NoError(t, err)

	updated, err = svc.Update(created2.ID, UpdateInput{
		GenderOther: OptionalString{Set: true, Value: strPtr("ignored")},
	})
	require.NoError(t, err)
	assert.Nil(t, updated.GenderOther)
}

func TestServiceUpdate_GenderSwitchClearsOther(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	in := validCreateInput()
	in.Gender = GenderOther
	in.GenderOther = strPtr("fluid")
	created, err := svc.Create(in)
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, UpdateInput{Gender: strPtr(GenderFemale)})
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, updated.Gender)
	assert.Nil(t, updated.GenderOther)

	// switching to "other" without a stored or supplied value fails
	in2 := validCreateInput()
	in2.Email = "ana2@gmail.com"
	created2, err := svc.Create(in2)
	require.NoError(t, err)

	_, err = svc.Update(created2.ID, UpdateInput{Gender: strPtr(GenderOther)})
	var ve ValidationErrors
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "gender_other", ve[0].Field)
}

func TestServiceUpdate_NotFound(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	_, err := svc.Update(42, UpdateInput{Phone: strPtr("1987654321")})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestServiceUpdate_EmailConflict(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	first, err := svc.Create(validCreateInput())
	require.NoError(t, err)

	in := validCreateInput()
	in.Email = "otro@gmail.com"
	second, err := svc.Create(in)
	require.NoError(t, err)

	_, err = svc.Update(second.ID, UpdateInput{Email: strPtr(first.Email)})
	assert.True(t, errors.Is(err, ErrEmailExists))
}
