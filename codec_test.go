package depot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type Named struct {
	Value string `json:"value"`
	Level int    `json:"level"`
}

func TestJSONHooks(t *testing.T) {
	storage := newTestStorage()
	names := PoolFor[Named](storage)
	UseJSON(names)

	e, n := names.NewEntity()
	n.Value, n.Level = "Player", 3

	var buf bytes.Buffer
	ok, err := names.Serialize(e, &buf)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"value":"Player","level":3}`, buf.String())

	other, _ := names.NewEntity()
	ok, err = names.Deserialize(other, &buf)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, Named{Value: "Player", Level: 3}, *names.Get(other))
}

func TestJSONDeserializeError(t *testing.T) {
	storage := newTestStorage()
	names := PoolFor[Named](storage)
	UseJSON(names)
	e, _ := names.NewEntity()

	ok, err := names.Deserialize(e, strings.NewReader(`{"value":`))
	require.True(t, ok)
	require.ErrorContains(t, err, "failed to deserialize")
}

func TestMarshalComponent(t *testing.T) {
	bz, err := MarshalComponent(Position{X: 1, Y: 2})
	require.NoError(t, err)
	require.JSONEq(t, `{"X":1,"Y":2}`, string(bz))

	_, err = MarshalComponent(make(chan int))
	require.Error(t, err)
}
