package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_HighlightAndClear(t *testing.T) {
	r := NewRegistry()
	r.Register("library", "#cccccc")
	r.Register("car-a", "#555555")

	require.NoError(t, r.Highlight("library", "#ff0000"))
	assert.ErrorIs(t, r.Highlight("gym", "#ff0000"), ErrUnknownObject)

	objs := r.Objects()
	require.Len(t, objs, 2)
	assert.Equal(t, "car-a", objs[0].ID)
	assert.False(t, objs[0].Highlighted)
	assert.Equal(t, "#ff0000", objs[1].Color)
	assert.True(t, objs[1].Highlighted)

	r.Clear()
	for _, o := range r.Objects() {
		assert.Equal(t, o.BaseColor, o.Color)
		assert.False(t, o.Highlighted)
	}
}

func TestRegistry_SelectHighlightsPadOnly(t *testing.T) {
	r := NewRegistry()
	r.Register("car-a", "#555555")
	r.Register("car-b", "#555555")
	require.NoError(t, r.Highlight("car-b", ""))

	ev := r.Select("P1", "car-a")
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "P1", ev.ZoneID)

	objs := r.Objects()
	assert.Equal(t, SelectionColor, objs[0].Color)
	assert.False(t, objs[1].Highlighted)
	assert.Len(t, r.Events(), 1)
}

func TestRegistry_EventsAreBounded(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < maxEvents+10; i++ {
		r.Select("P1", "")
	}
	assert.Len(t, r.Events(), maxEvents)
}
