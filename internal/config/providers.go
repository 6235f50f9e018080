package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/UnknownOlympus/compass/internal/models"
	"github.com/spf13/viper"
)

// ErrInvalidProviderEntry is returned for a malformed COMPASS_PROVIDERS entry.
var ErrInvalidProviderEntry = errors.New("invalid provider entry")

// LoadProviders builds the provider chain. A non-empty path is read as a YAML file with a
// top-level "providers" list; otherwise list is parsed as comma-separated "type" or "id:type"
// entries whose priority is their position. API keys set in COMPASS_<ID>_API_KEY take
// precedence over keys from the file.
func LoadProviders(path, list string) ([]models.ProviderSpec, error) {
	var (
		specs []models.ProviderSpec
		err   error
	)

	if path != "" {
		specs, err = readProvidersFile(path)
	} else {
		specs, err = parseProviderList(list)
	}
	if err != nil {
		return nil, err
	}

	for i := range specs {
		if specs[i].ID == "" {
			specs[i].ID = specs[i].Type
		}
		if key, ok := os.LookupEnv(apiKeyEnv(specs[i].ID)); ok {
			specs[i].APIKey = key
		}
	}

	return specs, nil
}

func readProvidersFile(path string) ([]models.ProviderSpec, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read providers file: %w", err)
	}

	var specs []models.ProviderSpec
	if err := v.UnmarshalKey("providers", &specs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal providers: %w", err)
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no providers listed in %s", ErrInvalidProviderEntry, path)
	}

	for i, spec := range specs {
		if spec.Type == "" {
			return nil, fmt.Errorf("%w: provider #%d has no type", ErrInvalidProviderEntry, i+1)
		}
	}

	return specs, nil
}

func parseProviderList(list string) ([]models.ProviderSpec, error) {
	var specs []models.ProviderSpec

	for entry := range strings.SplitSeq(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		id, providerType, found := strings.Cut(entry, ":")
		if !found {
			providerType = id
		}

		id, providerType = strings.TrimSpace(id), strings.TrimSpace(providerType)
		if id == "" || providerType == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProviderEntry, entry)
		}

		specs = append(specs, models.ProviderSpec{
			ID:       id,
			Type:     providerType,
			Priority: len(specs),
		})
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: provider list is empty", ErrInvalidProviderEntry)
	}

	return specs, nil
}
