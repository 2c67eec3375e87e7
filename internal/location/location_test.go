package location

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/storelocator/internal/geo"
)

var liberties = geo.Point{Lat: 53.34296378813723, Long: -6.280536890952785}

func TestFixedDeliversOnceAndClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := Fixed{Point: liberties}.Watch(ctx)
	require.NoError(t, err)

	fix := <-ch
	assert.Equal(t, liberties, fix.Point)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestFixedRejectsInvalidPoint(t *testing.T) {
	_, err := Fixed{Point: geo.Point{Lat: math.NaN()}}.Watch(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDeniedAndUnsupported(t *testing.T) {
	_, err := Denied{}.Watch(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	_, err = Unsupported{}.Watch(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestFeedSkipsInvalid(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFeed()
	ch, err := f.Watch(ctx)
	require.NoError(t, err)

	f.Push(geo.Point{Lat: 200})
	f.Push(liberties)
	assert.Equal(t, liberties, (<-ch).Point)
}

func TestFromConfig(t *testing.T) {
	w, err := FromConfig("FIXED", liberties)
	require.NoError(t, err)
	assert.Equal(t, Fixed{Point: liberties}, w)

	w, err = FromConfig("denied", liberties)
	require.NoError(t, err)
	assert.IsType(t, Denied{}, w)

	w, err = FromConfig("none", liberties)
	require.NoError(t, err)
	assert.IsType(t, Unsupported{}, w)

	_, err = FromConfig("gps", liberties)
	assert.Error(t, err)
}
