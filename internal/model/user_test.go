package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateNodes(t *testing.T) {
	nodes := NewUser("alice@x.com").CreateNodes()

	require.Len(t, nodes, 1)
	assert.Equal(t, "alice@x.com", nodes[0].Key)
	assert.Equal(t, UserNodeLabel, nodes[0].Label)
	assert.Equal(t, "alice@x.com", nodes[0].Properties["email"])
	assert.Equal(t, true, nodes[0].Properties["is_active:UNQUOTED"])
}

func TestUserSerializable(t *testing.T) {
	t.Run("without manager", func(t *testing.T) {
		u := NewUser("alice@x.com")
		require.NotNil(t, u.NextNode())
		assert.Nil(t, u.NextNode())
		assert.Nil(t, u.NextRelation())
	})

	t.Run("with manager", func(t *testing.T) {
		u := &User{Email: "alice@x.com", ManagerEmail: "carol@x.com", IsActive: true}

		rel := u.NextRelation()
		require.NotNil(t, rel)
		assert.Equal(t, "alice@x.com", rel.StartKey)
		assert.Equal(t, "carol@x.com", rel.EndKey)
		assert.Equal(t, UserManagerRelationType, rel.Type)
		assert.Equal(t, ManagerUserRelationType, rel.ReverseType)
		assert.Nil(t, u.NextRelation())
	})
}
