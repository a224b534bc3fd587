// ABOUTME: Backend selection for new output handles
// ABOUTME: Tries backends in priority order and keeps the first that works
package output

import (
	"errors"
	"fmt"
)

// Create returns a handle on the first available backend.
//
// device selects a backend-specific device and may be empty for the
// default. applicationName and description identify the stream to sound
// servers; description may be empty.
func Create(device, applicationName, description string) (*Object, error) {
	cfg := DefaultConfig()
	cfg.Device = device
	if applicationName != "" {
		cfg.ApplicationName = applicationName
	}
	cfg.Description = description
	return CreateWithConfig(cfg)
}

// CreateWithConfig is Create with full control over backend selection.
func CreateWithConfig(cfg Config) (*Object, error) {
	return Dispatch(cfg, Registered())
}

// Dispatch tries each factory in order and wraps the first backend that
// opens. Failures of individual backends are logged and skipped; if all
// fail the result wraps ErrNoDevice together with every availability error.
func Dispatch(cfg Config, factories []Factory) (*Object, error) {
	cfg = cfg.withDefaults()
	factories = filterFactories(factories, cfg.Backends)

	var errs []error
	for _, f := range factories {
		backend, err := f.New(cfg)
		if err != nil {
			log.Debugf("Backend %s unavailable: %v", f.Name, err)
			errs = append(errs, fmt.Errorf("%s: %w", f.Name, err))
			continue
		}
		if backend == nil {
			continue
		}

		obj := newObject(backend)
		log.Infof("Using %s audio output (%s)", backend.Name(), obj.ID())
		return obj, nil
	}

	if len(errs) == 0 {
		return nil, ErrNoDevice
	}
	return nil, fmt.Errorf("%w: %w", ErrNoDevice, errors.Join(errs...))
}

// filterFactories keeps only the named backends, in the order named.
func filterFactories(factories []Factory, names []string) []Factory {
	if len(names) == 0 {
		return factories
	}

	out := make([]Factory, 0, len(names))
	for _, name := range names {
		for _, f := range factories {
			if f.Name == name {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
