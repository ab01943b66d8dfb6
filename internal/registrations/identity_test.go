package registrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-events/backend/internal/models"
)

func TestRegularIdentity(t *testing.T) {
	ident, err := RegularIdentity(" e12345 ", " Kim Min-ji ", "Platform", "Engineer")
	require.NoError(t, err)
	assert.Equal(t, "e12345", ident.UserID)
	assert.Equal(t, "Kim Min-ji", ident.Name)
	assert.Equal(t, "Platform", ident.Department)
	assert.Equal(t, "Engineer", ident.Position)
	assert.Equal(t, models.RegisterTypeRegular, ident.Type)
}

func TestRegularIdentityRequiresUserIDAndName(t *testing.T) {
	_, err := RegularIdentity("", "Kim Min-ji", "", "")
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = RegularIdentity("e12345", "  ", "", "")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestOutsourceIdentityDeterministic(t *testing.T) {
	a, err := OutsourceIdentity("Lee Jun-ho", "Facilities")
	require.NoError(t, err)
	b, err := OutsourceIdentity("Lee Jun-ho", "Facilities")
	require.NoError(t, err)

	// Same self-declared details always produce the same id, so a retry
	// trips the already-registered check instead of double-booking.
	assert.Equal(t, a.UserID, b.UserID)
	assert.Equal(t, models.RegisterTypeOutsource, a.Type)
	assert.NotEmpty(t, a.UserID)
}

func TestOutsourceIdentityNormalizesCaseAndWhitespace(t *testing.T) {
	a, err := OutsourceIdentity("Lee  Jun-ho", "facilities")
	require.NoError(t, err)
	b, err := OutsourceIdentity("lee jun-ho ", " FACILITIES")
	require.NoError(t, err)
	assert.Equal(t, a.UserID, b.UserID)
}

func TestOutsourceIdentityDistinctPeopleDistinctIDs(t *testing.T) {
	a, err := OutsourceIdentity("Lee Jun-ho", "Facilities")
	require.NoError(t, err)
	b, err := OutsourceIdentity("Lee Jun-ho", "Security")
	require.NoError(t, err)
	assert.NotEqual(t, a.UserID, b.UserID)
}

func TestOutsourceIdentityRequiresName(t *testing.T) {
	_, err := OutsourceIdentity("", "Facilities")
	assert.ErrorIs(t, err, ErrMissingField)
}
