package kernel_test

import (
	"testing"

	"haulboard/internal/core/domain/model/kernel"
	"haulboard/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	t.Run("should parse case-insensitively", func(t *testing.T) {
		tests := map[string]kernel.Role{
			"sales":  kernel.RoleSales,
			"Driver": kernel.RoleDriver,
			"ADMIN":  kernel.RoleAdmin,
			" admin": kernel.RoleAdmin,
		}

		for input, expected := range tests {
			role, err := kernel.ParseRole(input)

			require.NoError(t, err)
			assert.Equal(t, expected, role)
		}
	})

	t.Run("should reject unrecognized roles", func(t *testing.T) {
		_, err := kernel.ParseRole("dispatcher")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestRole_IsStaff(t *testing.T) {
	assert.True(t, kernel.RoleSales.IsStaff())
	assert.True(t, kernel.RoleAdmin.IsStaff())
	assert.False(t, kernel.RoleDriver.IsStaff())
	assert.False(t, kernel.RoleUnknown.IsStaff())
}

func TestNewActor(t *testing.T) {
	t.Run("should create a valid actor", func(t *testing.T) {
		id := kernel.NewUUID()

		actor, err := kernel.NewActor(id, "Dana Driver", kernel.RoleDriver)

		require.NoError(t, err)
		require.NoError(t, actor.Validate())
		assert.True(t, actor.ID().IsEqual(id))
		assert.Equal(t, "Dana Driver", actor.Name())
		assert.Equal(t, kernel.RoleDriver, actor.Role())
	})

	t.Run("should reject a zero id", func(t *testing.T) {
		_, err := kernel.NewActor(kernel.UUID{}, "Dana Driver", kernel.RoleDriver)

		require.Error(t, err)
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		_, err := kernel.NewActor(kernel.NewUUID(), "", kernel.RoleDriver)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject an invalid role", func(t *testing.T) {
		_, err := kernel.NewActor(kernel.NewUUID(), "Dana Driver", kernel.RoleUnknown)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestActor_Validate(t *testing.T) {
	t.Run("should reject actors not created via NewActor", func(t *testing.T) {
		var actor kernel.Actor

		err := actor.Validate()

		require.ErrorIs(t, err, kernel.ErrActorIsNotConstructed)
	})
}

func TestActor_IsEqual(t *testing.T) {
	id := kernel.NewUUID()
	a, err := kernel.NewActor(id, "Dana Driver", kernel.RoleDriver)
	require.NoError(t, err)
	b, err := kernel.NewActor(id, "Dana D.", kernel.RoleAdmin)
	require.NoError(t, err)
	c, err := kernel.NewActor(kernel.NewUUID(), "Dana Driver", kernel.RoleDriver)
	require.NoError(t, err)

	assert.True(t, a.IsEqual(b), "actors compare by identifier")
	assert.False(t, a.IsEqual(c))
}
