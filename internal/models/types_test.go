package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	t.Run("Nil Serializes As Empty Array", func(t *testing.T) {
		val, err := StringList(nil).Value()
		require.NoError(t, err)
		require.NotNil(t, val)
		assert.Equal(t, []byte("[]"), val)
	})

	t.Run("Empty List", func(t *testing.T) {
		val, err := StringList{}.Value()
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), val)
	})

	t.Run("Populated List", func(t *testing.T) {
		val, err := StringList{"Haircut", "Spa"}.Value()
		require.NoError(t, err)
		assert.Equal(t, []byte(`["Haircut","Spa"]`), val)
	})
}

func TestStringListScan(t *testing.T) {
	t.Run("Bytes", func(t *testing.T) {
		var l StringList
		require.NoError(t, l.Scan([]byte(`["Haircut","Facial"]`)))
		assert.Equal(t, StringList{"Haircut", "Facial"}, l)
	})

	t.Run("String", func(t *testing.T) {
		var l StringList
		require.NoError(t, l.Scan(`["Spa"]`))
		assert.Equal(t, StringList{"Spa"}, l)
	})

	t.Run("Null", func(t *testing.T) {
		l := StringList{"stale"}
		require.NoError(t, l.Scan(nil))
		assert.Nil(t, l)
	})

	t.Run("Unsupported Type", func(t *testing.T) {
		var l StringList
		assert.Error(t, l.Scan(42))
	})
}
