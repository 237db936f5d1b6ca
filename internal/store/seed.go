package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Seed is the YAML fixture format the Memory store loads its contents from.
type Seed struct {
	Products []SeedProduct `yaml:"products"`
}

// SeedProduct is one product and its subscriber set in the seed file.
type SeedProduct struct {
	ID          string           `yaml:"id"`
	Title       string           `yaml:"title"`
	OwnerID     int              `yaml:"owner_id"`
	Version     string           `yaml:"version"`
	Status      string           `yaml:"status"`
	Subscribers []SeedSubscriber `yaml:"subscribers"`
}

// SeedSubscriber is one subscriber record in the seed file. Dates are
// RFC 3339 strings.
type SeedSubscriber struct {
	Identity   string    `yaml:"identity"`
	UserID     int       `yaml:"user_id"`
	UserName   string    `yaml:"user_name"`
	StartDate  time.Time `yaml:"start_date"`
	ExpireDate time.Time `yaml:"expire_date"`
	Lifetime   bool      `yaml:"lifetime"`
	Active     bool      `yaml:"active"`
}

// LoadSeed reads and parses the seed file at path.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store seed: read %q: %w", path, err)
	}

	seed := &Seed{}
	if err := yaml.Unmarshal(data, seed); err != nil {
		return nil, fmt.Errorf("store seed: parse yaml: %w", err)
	}

	if err := validateSeed(seed); err != nil {
		return nil, fmt.Errorf("store seed: %w", err)
	}

	return seed, nil
}

// validateSeed checks structural constraints on the parsed seed.
func validateSeed(seed *Seed) error {
	seen := make(map[string]bool, len(seed.Products))
	for _, p := range seed.Products {
		if p.ID == "" {
			return fmt.Errorf("product %q has no id", p.Title)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate product id %q", p.ID)
		}
		seen[p.ID] = true

		ids := make(map[string]bool, len(p.Subscribers))
		for _, s := range p.Subscribers {
			if s.Identity == "" {
				return fmt.Errorf("product %q: subscriber with empty identity", p.ID)
			}
			if ids[s.Identity] {
				return fmt.Errorf("product %q: duplicate identity %q", p.ID, s.Identity)
			}
			ids[s.Identity] = true
		}
	}
	return nil
}

func (p SeedProduct) product() *Product {
	return &Product{
		ID:      p.ID,
		Title:   p.Title,
		OwnerID: p.OwnerID,
		Version: p.Version,
		Status:  p.Status,
	}
}

func (s SeedSubscriber) subscriber() *Subscriber {
	return &Subscriber{
		Identity:   s.Identity,
		UserID:     s.UserID,
		UserName:   s.UserName,
		StartDate:  s.StartDate,
		ExpireDate: s.ExpireDate,
		Lifetime:   s.Lifetime,
		Active:     s.Active,
	}
}
