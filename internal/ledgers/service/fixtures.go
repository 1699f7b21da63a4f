package service

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/scaconnect/internal/ledgers/domain"
	"github.com/aussiebroadwan/scaconnect/internal/ledgers/store"
	"github.com/aussiebroadwan/scaconnect/pkg/cryptox"
	"github.com/aussiebroadwan/scaconnect/pkg/idx"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures are the PSUs a sandbox is seeded with.
type Fixtures struct {
	PSUs []PSUFixture `yaml:"psus"`
}

type PSUFixture struct {
	Login   string          `yaml:"login"`
	PIN     string          `yaml:"pin"`
	Email   string          `yaml:"email"`
	Phone   string          `yaml:"phone"`
	Methods []MethodFixture `yaml:"methods"`
}

type MethodFixture struct {
	ID          string `yaml:"id"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// LoadFixtures reads fixtures from path. An empty path gives the built-in
// PSUs.
func LoadFixtures(path string) (*Fixtures, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read fixtures %s: %w", path, err)
		}
	}

	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate rejects fixtures the store would refuse.
func (f *Fixtures) Validate() error {
	var errs []error
	seen := map[string]bool{}
	for i, p := range f.PSUs {
		if p.Login == "" || p.PIN == "" {
			errs = append(errs, fmt.Errorf("psus[%d]: login and pin are required", i))
		}
		if seen[p.Login] {
			errs = append(errs, fmt.Errorf("psus[%d]: duplicate login %q", i, p.Login))
		}
		seen[p.Login] = true
		for j, m := range p.Methods {
			switch m.Type {
			case domain.MethodEmail, domain.MethodSMS, domain.MethodAppOTP:
			default:
				errs = append(errs, fmt.Errorf("psus[%d].methods[%d]: unknown type %q", i, j, m.Type))
			}
			if m.ID == "" {
				errs = append(errs, fmt.Errorf("psus[%d].methods[%d]: id is required", i, j))
			}
		}
	}
	return errors.Join(errs...)
}

// Seed upserts every fixture PSU, hashing its PIN.
func Seed(ctx context.Context, st store.Store, hasher cryptox.SecretHasher, f *Fixtures) error {
	psus := make([]domain.PSU, 0, len(f.PSUs))
	for _, p := range f.PSUs {
		hash, err := hasher.Hash(p.PIN)
		if err != nil {
			return fmt.Errorf("hash pin of %s: %w", p.Login, err)
		}
		psu := domain.PSU{
			ID:        idx.New(idx.KindPSU).String(),
			Login:     p.Login,
			PINHash:   hash,
			Email:     p.Email,
			Phone:     p.Phone,
			CreatedAt: time.Now().UTC(),
		}
		for _, m := range p.Methods {
			psu.Methods = append(psu.Methods, domain.ScaMethod{ID: m.ID, Type: m.Type, Description: m.Description})
		}
		psus = append(psus, psu)
	}

	return st.WithTx(ctx, func(tx store.Tx) error {
		for _, p := range psus {
			if err := tx.PSUs().UpsertPSU(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}
