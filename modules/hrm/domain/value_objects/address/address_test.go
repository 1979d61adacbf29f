package address_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cams7/cadferias/modules/hrm/domain/value_objects/address"
)

func TestIsState(t *testing.T) {
	assert.True(t, address.IsState("SP"))
	assert.True(t, address.IsState("rj"))
	assert.False(t, address.IsState("XX"))
	assert.False(t, address.IsState(""))

	name, ok := address.StateName("mg")
	assert.True(t, ok)
	assert.Equal(t, "Minas Gerais", name)
}

func TestFindCity_ScopedToState(t *testing.T) {
	cities := []address.CityVO{
		{ID: 1, Name: "Rio Claro", StateID: 1},
		{ID: 2, Name: "Rio Claro", StateID: 2},
	}
	city, ok := address.FindCity(cities, 2, "Rio Claro")
	assert.True(t, ok)
	assert.Equal(t, int64(2), city.ID)

	_, ok = address.FindCity(cities, 3, "Rio Claro")
	assert.False(t, ok)
}
