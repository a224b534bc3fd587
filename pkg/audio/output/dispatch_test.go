// ABOUTME: Tests for backend registration and selection
// ABOUTME: Checks priority order, fallback and the backend filter
package output

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingFactory(name string, prio int, err error, tried *[]string) Factory {
	return Factory{
		Name:     name,
		Priority: prio,
		New: func(cfg Config) (Backend, error) {
			*tried = append(*tried, name)
			return nil, err
		},
	}
}

func recordingFactory(name string, prio int, rec *recordingBackend, tried *[]string) Factory {
	return Factory{
		Name:     name,
		Priority: prio,
		New: func(cfg Config) (Backend, error) {
			*tried = append(*tried, name)
			return rec, nil
		},
	}
}

func TestDispatchFallsBack(t *testing.T) {
	var tried []string
	third := newRecordingBackend("third")
	fourth := newRecordingBackend("fourth")

	obj, err := Dispatch(DefaultConfig(), []Factory{
		failingFactory("first", 10, errors.New("no server"), &tried),
		failingFactory("second", 20, errors.New("no card"), &tried),
		recordingFactory("third", 30, third, &tried),
		recordingFactory("fourth", 40, fourth, &tried),
	})
	require.NoError(t, err)
	assert.Equal(t, "third", obj.Backend())
	assert.Equal(t, []string{"first", "second", "third"}, tried)

	_ = obj.Write([]byte{0})
	_ = obj.Flush()
	assert.Equal(t, 1, third.calls["write"])
	assert.Equal(t, 1, third.calls["flush"])
	assert.Empty(t, fourth.calls)
}

func TestDispatchNoDevice(t *testing.T) {
	var tried []string
	errServer := errors.New("no server")
	errCard := errors.New("no card")

	obj, err := Dispatch(DefaultConfig(), []Factory{
		failingFactory("first", 10, errServer, &tried),
		failingFactory("second", 20, errCard, &tried),
	})
	assert.Nil(t, obj)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoDevice))
	assert.True(t, errors.Is(err, errServer))
	assert.True(t, errors.Is(err, errCard))
	assert.Contains(t, err.Error(), "no audio output available")
}

func TestDispatchEmpty(t *testing.T) {
	obj, err := Dispatch(DefaultConfig(), nil)
	assert.Nil(t, obj)
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestDispatchBackendFilter(t *testing.T) {
	var tried []string
	a := newRecordingBackend("a")
	b := newRecordingBackend("b")

	cfg := DefaultConfig()
	cfg.Backends = []string{"b", "missing", "a"}

	obj, err := Dispatch(cfg, []Factory{
		recordingFactory("a", 10, a, &tried),
		recordingFactory("b", 20, b, &tried),
	})
	require.NoError(t, err)
	assert.Equal(t, "b", obj.Backend())
	assert.Equal(t, []string{"b"}, tried)
}

func TestDispatchAppliesDefaults(t *testing.T) {
	var got Config
	_, err := Dispatch(Config{Device: "hw:1,0"}, []Factory{{
		Name: "capture",
		New: func(cfg Config) (Backend, error) {
			got = cfg
			return newRecordingBackend("capture"), nil
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, "hw:1,0", got.Device)
	assert.Equal(t, DefaultApplicationName, got.ApplicationName)
	assert.Equal(t, DefaultRingSize, got.RingSize)
	assert.Equal(t, Latency, got.PollInterval)
}

func TestRegistryOrder(t *testing.T) {
	registryMu.Lock()
	saved := registry
	registry = nil
	registryMu.Unlock()
	defer func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	}()

	Register(Factory{Name: "late", Priority: 50})
	Register(Factory{Name: "early", Priority: 10})
	Register(Factory{Name: "middle", Priority: 20})
	Register(Factory{Name: "late", Priority: 5})

	var names []string
	for _, f := range Registered() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"late", "early", "middle"}, names)
}
