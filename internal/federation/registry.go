package federation

import (
	"fmt"

	"github.com/seekrhq/auth-service/config"
)

// Registry holds the providers constructed from configuration at startup.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry builds every provider that has credentials configured.
func NewRegistry(creds map[string]config.ProviderCredentials) (*Registry, error) {
	reg := &Registry{providers: make(map[string]Provider)}

	for name, c := range creds {
		var (
			p   Provider
			err error
		)
		switch name {
		case "discord":
			p, err = NewDiscordProvider(c)
		case "google":
			p, err = NewGoogleProvider(c)
		default:
			return nil, fmt.Errorf("unsupported provider: %s", name)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to configure provider %s: %w", name, err)
		}
		reg.providers[name] = p
	}

	return reg, nil
}

// Register adds or replaces a provider. Test hook and extension point.
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns the named provider or ErrProviderNotFound.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, ErrProviderNotFound
	}
	return p, nil
}
