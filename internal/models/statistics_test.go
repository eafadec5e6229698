package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatEntriesMarshalKeepsOrder(t *testing.T) {
	t.Parallel()

	entries := StatEntries{
		{Label: StatName, Value: `Ride "home"`},
		{Label: StatDate, Value: "2024-06-01"},
		{Label: StatKm, Value: "12.5"},
	}

	out, err := json.Marshal(entries)
	require.NoError(t, err)
	assert.Equal(t, `{"Name":"Ride \"home\"","Date":"2024-06-01","Km":"12.5"}`, string(out))

	var back map[string]string
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Len(t, back, 3)

	out, err = json.Marshal(StatEntries(nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}
