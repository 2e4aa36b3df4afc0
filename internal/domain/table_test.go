package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_SortsByRegionThenDate(t *testing.T) {
	table, err := NewTable([]Record{
		rec("Utah", 2, 2, 0),
		rec("Ohio", 3, 3, 0),
		rec("Utah", 1, 1, 0),
		rec("Ohio", 1, 1, 0),
	})
	require.NoError(t, err)

	var keys []Key
	for _, r := range table.Rows() {
		keys = append(keys, r.Key())
	}
	assert.Equal(t, []Key{
		{Region: "Ohio", Date: day(1)},
		{Region: "Ohio", Date: day(3)},
		{Region: "Utah", Date: day(1)},
		{Region: "Utah", Date: day(2)},
	}, keys)
}

func TestTable_UnknownRegion(t *testing.T) {
	table, err := NewTable([]Record{rec("Ohio", 1, 1, 0)})
	require.NoError(t, err)

	assert.False(t, table.Has("Narnia"))
	assert.Nil(t, table.Series("Narnia"))
	_, ok := table.Lookup(Key{Region: "Narnia", Date: day(1)})
	assert.False(t, ok)
}

func TestTable_AccessorsReturnCopies(t *testing.T) {
	table, err := NewTable([]Record{rec("Ohio", 1, 1, 0)})
	require.NoError(t, err)

	series := table.Series("Ohio")
	series[0].Cases = NewCount(999)
	regions := table.Regions()
	regions[0] = "Mutated"

	got, ok := table.Lookup(Key{Region: "Ohio", Date: day(1)})
	require.True(t, ok)
	assert.Equal(t, NewCount(1), got.Cases)
	assert.Equal(t, []string{"Ohio"}, table.Regions())
}

func TestTable_DoesNotAliasInput(t *testing.T) {
	input := []Record{rec("Ohio", 1, 1, 0)}
	table, err := NewTable(input)
	require.NoError(t, err)

	input[0].Cases = NewCount(50)
	assert.Equal(t, NewCount(1), table.Series("Ohio")[0].Cases)
}

func TestCountyLabel(t *testing.T) {
	assert.Equal(t, "Washington - King", CountyLabel("Washington", "King"))
	assert.Equal(t, "Louisiana - St. John the Baptist", CountyLabel("Louisiana", "St. John the Baptist"))
}
