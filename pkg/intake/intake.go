package intake

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-leadform/pkg/lead"
)

// Mode names an intake backend.
type Mode string

const (
	ModeSimulated Mode = "simulated"
	ModeStore     Mode = "store"
	ModeRemote    Mode = "remote"
)

// Config selects and configures a backend.
type Config struct {
	Mode          Mode
	Delay         time.Duration
	StorePath     string
	RemoteURL     string
	RemoteTimeout time.Duration
	RemoteHeaders map[string]string
}

// Backend is an opened intake together with its release hook.
type Backend struct {
	Intake lead.Intake
	// Store is set when Mode is ModeStore.
	Store *Store
	close func() error
}

// Close releases resources held by the backend.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	return b.close()
}

// New opens the backend cfg names. The simulated delay also applies in front
// of the store so the visible submitting window matches across modes.
func New(cfg Config) (*Backend, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(string(cfg.Mode))))
	if mode == "" {
		mode = ModeSimulated
	}

	switch mode {
	case ModeSimulated:
		return &Backend{Intake: NewSimulated(cfg.Delay)}, nil

	case ModeStore:
		store, err := Open(cfg.StorePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Intake: Chain(NewSimulated(cfg.Delay), store),
			Store:  store,
			close:  store.Close,
		}, nil

	case ModeRemote:
		opts := []RemoteOption{WithRemoteTimeout(cfg.RemoteTimeout)}
		for name, value := range cfg.RemoteHeaders {
			opts = append(opts, WithRemoteHeader(name, value))
		}
		remote, err := NewRemote(cfg.RemoteURL, opts...)
		if err != nil {
			return nil, err
		}
		return &Backend{Intake: remote}, nil
	}

	return nil, fmt.Errorf("intake: unknown mode %q", cfg.Mode)
}
