package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "Japan", Name("JP"))
	assert.Equal(t, "France", Name("FR"))
	assert.Equal(t, "United States", Name("US"))

	// Unknown codes fall back to the code itself.
	assert.Equal(t, "XX", Name("XX"))
}

func TestContinent(t *testing.T) {
	assert.Equal(t, ContinentAsia, Continent("JP"))
	assert.Equal(t, ContinentEurope, Continent("FR"))
	assert.Equal(t, ContinentNorthAmerica, Continent("US"))
	assert.Equal(t, ContinentSouthAmerica, Continent("BR"))
	assert.Equal(t, ContinentOceania, Continent("AU"))
	assert.Equal(t, ContinentAfrica, Continent("EG"))

	assert.Equal(t, "", Continent("XX"))
}
