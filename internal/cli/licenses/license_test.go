package licenses

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/momentumx/momentumx/internal/cli"
	"github.com/momentumx/momentumx/internal/cli/clitest"
	"github.com/momentumx/momentumx/internal/entitlement"
	"github.com/momentumx/momentumx/internal/keyring"
	"github.com/momentumx/momentumx/internal/license"
)

type memKeys struct{ key string }

func (m *memKeys) Get() (string, error) {
	if m.key == "" {
		return "", keyring.ErrNotFound
	}
	return m.key, nil
}
func (m *memKeys) Set(key string) error { m.key = key; return nil }
func (m *memKeys) Delete() error        { m.key = ""; return nil }

func withLicenseServer(t *testing.T, ctx *cli.Context, handler http.HandlerFunc) *memKeys {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	keys := &memKeys{}
	client := license.New(license.Config{Endpoint: srv.URL, ProductID: "momentumx"})
	ctx.License = license.NewManager(client, ctx.Store, keys, time.Hour, ctx.Clock())
	return keys
}

func TestActivateAndForget(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Starter)
	keys := withLicenseServer(t, ctx, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("license_key") != "GOOD-KEY" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"message":"That license does not exist"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"purchase":{"product_name":"MomentumX Coach"}}`))
	})

	if err := (&LicenseActivateCmd{Key: "BAD-KEY"}).Run(ctx); !errors.Is(err, license.ErrInvalidLicense) {
		t.Fatalf("expected ErrInvalidLicense, got %v", err)
	}
	if keys.key != "" {
		t.Error("a rejected key must not be stored")
	}

	if err := (&LicenseActivateCmd{Key: " GOOD-KEY "}).Run(ctx); err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if keys.key != "GOOD-KEY" {
		t.Errorf("stored key = %q", keys.key)
	}
	tier, err := ctx.ResolveTier(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if tier != entitlement.Coach || ctx.Tracker.Tier() != entitlement.Coach {
		t.Errorf("tier = %s (tracker %s), want coach", tier, ctx.Tracker.Tier())
	}

	if err := (&LicenseStatusCmd{}).Run(ctx); err != nil {
		t.Errorf("status failed: %v", err)
	}

	if err := (&LicenseForgetCmd{}).Run(ctx); err != nil {
		t.Fatalf("forget failed: %v", err)
	}
	if tier, _ := ctx.ResolveTier(t.Context()); tier != entitlement.Starter {
		t.Errorf("tier after forget = %s, want starter", tier)
	}
}

func TestRefreshKeepsTierWhenServerDown(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Business)
	keys := withLicenseServer(t, ctx, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	keys.key = "STORED"

	if err := (&LicenseRefreshCmd{}).Run(ctx); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if tier, _ := ctx.ResolveTier(t.Context()); tier != entitlement.Business {
		t.Errorf("tier = %s, want cached business", tier)
	}
}

func TestCommandsRequireManager(t *testing.T) {
	ctx := clitest.NewContext(t, entitlement.Starter)
	for name, run := range map[string]func(*cli.Context) error{
		"activate": (&LicenseActivateCmd{Key: "k"}).Run,
		"refresh":  (&LicenseRefreshCmd{}).Run,
		"forget":   (&LicenseForgetCmd{}).Run,
	} {
		if err := run(ctx); !errors.Is(err, errNotConfigured) {
			t.Errorf("%s: expected errNotConfigured, got %v", name, err)
		}
	}
	// Status and features work from the cached tier alone.
	if err := (&LicenseStatusCmd{}).Run(ctx); err != nil {
		t.Errorf("status failed: %v", err)
	}
	if err := (&LicenseFeaturesCmd{Tier: "all"}).Run(ctx); err != nil {
		t.Errorf("features failed: %v", err)
	}
}
