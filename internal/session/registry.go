package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"job-hunt-agent/internal/agent"
	"job-hunt-agent/internal/config"
	"job-hunt-agent/internal/llm"
	"job-hunt-agent/internal/logging"
	"job-hunt-agent/internal/logging/types"
	"job-hunt-agent/internal/scraper/engines/firecrawl"
)

const maxCachedAgents = 1024

// MissingCredentialsError lists the credentials a session still needs
type MissingCredentialsError struct {
	Fields []string
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("missing credentials: %s", strings.Join(e.Fields, ", "))
}

// AgentFactory builds an agent for a complete set of credentials
type AgentFactory func(creds Credentials) (*agent.Agent, error)

// NewAgentFactory returns the factory wiring the Firecrawl extractor and the configured generation provider
func NewAgentFactory(cfg *config.Config, logger types.Logger) AgentFactory {
	providers := llm.NewFactory(cfg, logger)

	return func(creds Credentials) (*agent.Agent, error) {
		generator, err := providers.CreateProvider(llm.Credentials{
			APIKey:   creds.GenerationAPIKey,
			ModelURL: creds.ModelURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create generation provider: %w", err)
		}

		extractor := firecrawl.NewFirecrawlExtractor(cfg, creds.FirecrawlAPIKey, logger)
		return agent.New(extractor, generator, cfg.Generation.MaxNewTokens, logger), nil
	}
}

type cachedAgent struct {
	creds Credentials
	agent *agent.Agent
}

// Registry resolves a session's credentials and hands out its agent. The agent is
// built on first use and reused until the session's credentials change.
type Registry struct {
	store           Store
	defaults        Credentials
	requireModelURL bool
	build           AgentFactory
	logger          types.Logger

	mu     sync.Mutex
	agents map[string]cachedAgent
}

// NewRegistry creates a registry over store. Values missing from a session fall back
// to the credentials configured in cfg.
func NewRegistry(cfg *config.Config, store Store, build AgentFactory, logger types.Logger) *Registry {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Registry{
		store:           store,
		defaults:        DefaultCredentials(cfg),
		requireModelURL: cfg.RequiresModelURL(),
		build:           build,
		logger:          logger.WithField("component", "session_registry"),
		agents:          make(map[string]cachedAgent),
	}
}

// RequiresModelURL reports whether sessions must provide a model URL
func (r *Registry) RequiresModelURL() bool {
	return r.requireModelURL
}

// Credentials returns the effective credentials of session id
func (r *Registry) Credentials(ctx context.Context, id string) (Credentials, error) {
	var stored Credentials
	if id != "" {
		var err error
		stored, err = r.store.Get(ctx, id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return Credentials{}, err
		}
	}
	return stored.WithDefaults(r.defaults), nil
}

// Known reports whether session id is present in the store
func (r *Registry) Known(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	_, err := r.store.Get(ctx, id)
	return err == nil
}

// Save stores the credentials of session id
func (r *Registry) Save(ctx context.Context, id string, creds Credentials) error {
	if err := r.store.Save(ctx, id, creds); err != nil {
		return err
	}

	r.logger.Info("Session credentials saved", map[string]interface{}{
		"session_id": id,
		"complete":   creds.WithDefaults(r.defaults).Complete(r.requireModelURL),
	})
	return nil
}

// Update stores creds for session id, keeping previously stored values where creds are empty
func (r *Registry) Update(ctx context.Context, id string, creds Credentials) error {
	stored, err := r.store.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return r.Save(ctx, id, creds.WithDefaults(stored))
}

// Forget removes the session and its agent
func (r *Registry) Forget(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.agents, id)
	r.mu.Unlock()

	return r.store.Delete(ctx, id)
}

// Agent returns the agent of session id, building it when the session has none yet
func (r *Registry) Agent(ctx context.Context, id string) (*agent.Agent, error) {
	creds, err := r.Credentials(ctx, id)
	if err != nil {
		return nil, err
	}

	if missing := creds.Missing(r.requireModelURL); len(missing) > 0 {
		return nil, &MissingCredentialsError{Fields: missing}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.agents[id]; ok && cached.creds == creds {
		return cached.agent, nil
	}

	a, err := r.build(creds)
	if err != nil {
		return nil, err
	}

	if len(r.agents) >= maxCachedAgents {
		for key := range r.agents {
			delete(r.agents, key)
			break
		}
	}
	r.agents[id] = cachedAgent{creds: creds, agent: a}

	r.logger.Info("Agent created for session", map[string]interface{}{"session_id": id})
	return a, nil
}

// Ping checks the underlying store
func (r *Registry) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}
