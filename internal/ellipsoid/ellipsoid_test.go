package ellipsoid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatteningMatchesAxes(t *testing.T) {
	for _, e := range All() {
		t.Run(e.Name, func(t *testing.T) {
			assert.InDelta(t, (e.A-e.B)/e.A, e.F, 1e-8)
		})
	}
}

func TestLookup(t *testing.T) {
	e, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, WGS84, e)

	e, err = Lookup("bessel1841")
	require.NoError(t, err)
	assert.Equal(t, "Bessel1841", e.Name)

	e, err = Lookup("Hayford")
	require.NoError(t, err)
	assert.Equal(t, Intl1924, e)

	_, err = Lookup("mars2000")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestAllIsUniqueAndSorted(t *testing.T) {
	all := All()
	assert.Len(t, all, 8)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].Name, all[i].Name)
	}
}

func TestDatums(t *testing.T) {
	d, err := LookupDatum("OSGB36")
	require.NoError(t, err)
	assert.Equal(t, Airy1830, d.Ellipsoid)
	assert.InDelta(t, 20.4894, d.Transform.S, 1e-9)

	d, err = LookupDatum("")
	require.NoError(t, err)
	assert.Equal(t, WGS84, d.Ellipsoid)
	assert.Equal(t, Transform{}, d.Transform)

	assert.Len(t, Datums(), 8)

	_, err = LookupDatum("nope")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestResolve(t *testing.T) {
	e, err := Resolve("nad27")
	require.NoError(t, err)
	assert.Equal(t, Clarke1866, e)

	e, err = Resolve("grs80")
	require.NoError(t, err)
	assert.Equal(t, GRS80, e)

	_, err = Resolve("unknown")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, WGS84, Ellipsoid{}.OrDefault())
	assert.Equal(t, WGS72, WGS72.OrDefault())
}
