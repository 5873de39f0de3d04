package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aurevra/storefront-go/internal/testutil"
)

type fakeCatalog struct {
	calls int
	err   error
}

func (f *fakeCatalog) Refresh(_ context.Context) error {
	f.calls++
	return f.err
}

type fakePurger struct {
	calls     int
	retention time.Duration
	removed   int64
	err       error
}

func (f *fakePurger) Purge(_ context.Context, retention time.Duration) (int64, error) {
	f.calls++
	f.retention = retention
	return f.removed, f.err
}

type fakeGeo struct {
	enabled bool
	reloads int
}

func (f *fakeGeo) Reload() error { f.reloads++; return nil }
func (f *fakeGeo) IsEnabled() bool {
	return f.enabled
}

func TestStartRegistersJobs(t *testing.T) {
	logger := testutil.TestLogger()

	tests := []struct {
		name     string
		catalog  CatalogRefresher
		purger   AnalyticsPurger
		geo      GeoReloader
		wantJobs int
	}{
		{"all enabled", &fakeCatalog{}, &fakePurger{}, &fakeGeo{enabled: true}, 3},
		{"geoip disabled", &fakeCatalog{}, &fakePurger{}, &fakeGeo{enabled: false}, 2},
		{"catalog only", &fakeCatalog{}, nil, nil, 1},
		{"nothing", nil, nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{CatalogRefreshMinutes: 5}, tt.catalog, tt.purger, tt.geo, logger)
			if err := s.Start(); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			defer s.Stop()

			if got := len(s.cron.Entries()); got != tt.wantJobs {
				t.Errorf("registered jobs = %d, want %d", got, tt.wantJobs)
			}
		})
	}
}

func TestRefreshCatalogJob(t *testing.T) {
	catalog := &fakeCatalog{}
	s := New(Config{}, catalog, nil, nil, testutil.TestLogger())

	s.refreshCatalog()
	if catalog.calls != 1 {
		t.Errorf("Refresh calls = %d, want 1", catalog.calls)
	}

	// A failing refresh must not panic; it only logs.
	catalog.err = errors.New("upstream down")
	s.refreshCatalog()
	if catalog.calls != 2 {
		t.Errorf("Refresh calls = %d, want 2", catalog.calls)
	}
}

func TestPurgeJobUsesConfiguredRetention(t *testing.T) {
	purger := &fakePurger{removed: 12}
	s := New(Config{PageViewRetention: 30 * 24 * time.Hour}, nil, purger, nil, testutil.TestLogger())

	s.purgePageViews()
	if purger.calls != 1 {
		t.Fatalf("Purge calls = %d, want 1", purger.calls)
	}
	if purger.retention != 30*24*time.Hour {
		t.Errorf("retention = %v, want 720h", purger.retention)
	}
}

func TestPurgeJobDefaultsRetention(t *testing.T) {
	purger := &fakePurger{}
	s := New(Config{}, nil, purger, nil, testutil.TestLogger())

	s.purgePageViews()
	if purger.retention != 90*24*time.Hour {
		t.Errorf("retention = %v, want 2160h", purger.retention)
	}
}
