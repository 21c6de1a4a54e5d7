package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/boards/pkg/types"
)

func TestNewBackend(t *testing.T) {
	store := NewBackend()
	require.NotNil(t, store)

	_, err := store.Fields().List()
	assert.ErrorIs(t, err, types.ErrStoreDetached)

	require.NoError(t, store.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { _ = store.Detach() })

	id, err := store.Fields().Set(&types.Field{Name: "Status", ValueType: types.ValueTypeCategorical})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}
