package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshal(t *testing.T) {
	var body struct {
		Start *Date `json:"start"`
		End   *Date `json:"end"`
		Empty *Date `json:"empty"`
	}
	err := json.Unmarshal([]byte(`{"start":"2024-05-01","end":"2024-06-30T12:00:00Z","empty":""}`), &body)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *body.Start.Ptr())
	assert.Equal(t, 2024, body.End.Year())
	assert.Nil(t, body.Empty.Ptr())
}

func TestDateUnmarshalNull(t *testing.T) {
	var body struct {
		Start *Date `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":null}`), &body))
	assert.Nil(t, body.Start.Ptr())
}

func TestDateUnmarshalInvalid(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/05/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240501`), &d))
}

func TestDateMarshal(t *testing.T) {
	out, err := json.Marshal(Date{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01"`, string(out))

	out, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}
