package app

import (
	"context"
	"fmt"
	"time"

	"github.com/totoapp/expenses-client/internal/config"
	"github.com/totoapp/expenses-client/internal/domain"
	"github.com/totoapp/expenses-client/internal/logger"
	"github.com/totoapp/expenses-client/internal/storage"
	"github.com/totoapp/expenses-client/pkg/expenses"
	"github.com/totoapp/expenses-client/pkg/httpclient"
	"github.com/totoapp/expenses-client/pkg/metrics"
	"github.com/totoapp/expenses-client/pkg/profiles"
	"github.com/totoapp/expenses-client/pkg/publishers"
)

// App represents the expenses client runtime. It resolves the backend
// endpoint, builds the transport stack and owns the journal, publishers and
// metrics that observe mutating calls.
type App struct {
	cfg     *config.Config
	client  *expenses.Client
	journal storage.Journal
	fanout  *publishers.Fanout
	metrics *metrics.Manager
	user    string
	log     logger.Logger
}

// endpoint is the resolved backend target after applying an optional profile.
type endpoint struct {
	baseURL string
	user    string
	timeout time.Duration
	headers map[string]string
	profile string
}

// New builds an App from configuration.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	ep, err := resolveEndpoint(cfg)
	if err != nil {
		return nil, err
	}
	log.InfoObj("endpoint resolved", "endpoint", map[string]any{
		"base_url":        ep.baseURL,
		"profile":         ep.profile,
		"timeout_seconds": int(ep.timeout.Seconds()),
	})

	var metricOpts []metrics.Option
	if ep.profile != "" {
		metricOpts = append(metricOpts, metrics.WithConstLabels(map[string]string{"profile": ep.profile}))
	}
	m := metrics.NewManager(metricOpts...)

	journal, err := storage.NewJournal(cfg.JournalType, cfg.JournalPath, storage.Options{
		EntryTTL:        cfg.JournalTTL,
		CleanupInterval: cfg.JournalCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init journal: %w", err)
	}
	log.InfoObj("journal initialized", "journal_config", map[string]any{
		"type":                     cfg.JournalType,
		"path":                     cfg.JournalPath,
		"ttl_seconds":              int(cfg.JournalTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.JournalCleanupInterval.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		journal.Close()
		return nil, err
	}

	transport := httpclient.NewRestyClient(httpclient.Options{
		BaseURL:  ep.baseURL,
		Timeout:  ep.timeout,
		Headers:  ep.headers,
		Logger:   log,
		Observer: m,
	})

	return &App{
		cfg:     cfg,
		client:  expenses.New(newRecorder(transport, journal, fanout, m, log)),
		journal: journal,
		fanout:  fanout,
		metrics: m,
		user:    ep.user,
		log:     log,
	}, nil
}

// resolveEndpoint applies the selected profile on top of the flat configuration.
func resolveEndpoint(cfg *config.Config) (endpoint, error) {
	ep := endpoint{
		baseURL: cfg.APIBaseURL,
		user:    cfg.User,
		timeout: cfg.APITimeout,
	}
	if cfg.Profile == "" {
		return ep, nil
	}

	reg, err := profiles.LoadRegistry(cfg.ProfilesFile)
	if err != nil {
		return endpoint{}, fmt.Errorf("load profiles registry: %w", err)
	}
	p, ok := reg.ByID(cfg.Profile)
	if !ok {
		return endpoint{}, fmt.Errorf("profile %q not found in %s", cfg.Profile, cfg.ProfilesFile)
	}

	ep.profile = p.ID
	ep.baseURL = p.BaseURL
	ep.timeout = p.Timeout()
	ep.headers = profiles.Headers(p)
	if ep.user == "" {
		ep.user = p.User
	}
	return ep, nil
}

// buildFanout loads enabled publishers. An empty path disables publishing.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Client returns the expenses API client.
func (a *App) Client() *expenses.Client {
	return a.client
}

// User returns the configured default user, which may be empty.
func (a *App) User() string {
	return a.user
}

// History returns recent journaled mutations, newest first.
func (a *App) History(limit int) ([]domain.JournalEntry, error) {
	return a.journal.Recent(limit)
}

// Close flushes metrics and releases the journal and publishers.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var firstErr error
	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			a.log.ErrorObj("metrics textfile write failed", "error", err.Error())
			firstErr = fmt.Errorf("write metrics: %w", err)
		}
	}
	if err := a.fanout.Close(); err != nil {
		a.log.ErrorObj("publishers close failed", "error", err.Error())
		if firstErr == nil {
			firstErr = err
		}
	}
	if err := a.journal.Close(); err != nil {
		a.log.ErrorObj("journal close failed", "error", err.Error())
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
