package record

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cprefsql/cprefengine/internal/value"
)

func TestCSVSource(t *testing.T) {
	csv := `city,stars,price
lisbon,5,110.5
porto,4,60
`
	source, err := NewCSVSource(map[string]io.Reader{"hotels": strings.NewReader(csv)})
	require.NoError(t, err)

	records, err := source.Table("hotels")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Headers are case-folded to upper; cells land in the narrowest
	// kind that parses.
	first := records[0]
	assert.True(t, value.Equal(first["CITY"], value.NewString("lisbon")))
	assert.True(t, value.Equal(first["STARS"], value.NewInteger(5)))
	assert.Equal(t, value.Floating, first["PRICE"].Kind())
	assert.True(t, value.Equal(first["PRICE"], value.NewFloating(110.5)))

	second := records[1]
	assert.True(t, value.Equal(second["PRICE"], value.NewInteger(60)))

	// Table names resolve case-insensitively.
	again, err := source.Table("HOTELS")
	require.NoError(t, err)
	assert.Len(t, again, 2)

	// Unknown tables are an error, not a panic.
	_, err = source.Table("flights")
	assert.Error(t, err)
}

func TestCSVSourceEmptyTable(t *testing.T) {
	source, err := NewCSVSource(map[string]io.Reader{"empty": strings.NewReader("")})
	require.NoError(t, err)

	records, err := source.Table("empty")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordEqualOnAttrs(t *testing.T) {
	a := Record{"A": value.NewInteger(1), "B": value.NewInteger(2)}
	b := Record{"A": value.NewInteger(1), "B": value.NewInteger(3)}

	assert.True(t, Equal(a, b, []string{"A"}))
	assert.False(t, Equal(a, b, []string{"A", "B"}))

	// A missing attribute on one side breaks equality for that attribute.
	c := Record{"A": value.NewInteger(1)}
	assert.False(t, Equal(a, c, []string{"A", "B"}))
	assert.True(t, Equal(a, c, []string{"A"}))
}

func TestSlotOverlaps(t *testing.T) {
	two := ValueSlot(value.NewInteger(2))
	three := ValueSlot(value.NewInteger(3))

	assert.True(t, Overlaps(two, ValueSlot(value.NewInteger(2))))
	assert.False(t, Overlaps(two, three))
}

func TestGeneralizedClone(t *testing.T) {
	g := FromRecord(Record{"A": value.NewInteger(1)})
	clone := g.Clone()
	delete(clone, "A")

	_, stillThere := g["A"]
	assert.True(t, stillThere)
}
