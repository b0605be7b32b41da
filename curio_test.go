package curio

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmonteiro/curio/core"
	"github.com/dmonteiro/curio/services"
	"github.com/dmonteiro/curio/view"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type recordingHTTPAdapter struct {
	registered bool
	basePath   string
	err        error
}

func (r *recordingHTTPAdapter) RegisterRoutes(auth AuthProvider, tools ToolStorage, users core.UserStorage, basePath string) error {
	if r.err != nil {
		return r.err
	}
	r.registered = true
	r.basePath = basePath
	return nil
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(Config{Database: services.NewFakeStorage()})
	if !errors.Is(err, ErrSecretRequired) {
		t.Errorf("expected ErrSecretRequired, got %v", err)
	}
}

func TestNewRejectsShortSecret(t *testing.T) {
	_, err := New(Config{Secret: "short", Database: services.NewFakeStorage()})
	if !errors.Is(err, ErrSecretTooShort) {
		t.Errorf("expected ErrSecretTooShort, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "32") {
		t.Errorf("error should state the minimum, got %q", err.Error())
	}
}

func TestNewRequiresStorage(t *testing.T) {
	_, err := New(Config{Secret: testSecret})
	if !errors.Is(err, ErrStorageRequired) {
		t.Errorf("expected ErrStorageRequired, got %v", err)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	c, err := New(Config{Secret: testSecret, Database: services.NewFakeStorage()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if c.Auth == nil || c.Sessions == nil {
		t.Fatal("expected auth and session services to be assembled")
	}
	if c.BasePath != "/api" {
		t.Errorf("expected default base path /api, got %q", c.BasePath)
	}
}

func TestNewRegistersRoutes(t *testing.T) {
	http := &recordingHTTPAdapter{}
	_, err := New(Config{
		Secret:   testSecret,
		Database: services.NewFakeStorage(),
		HTTP:     http,
		BasePath: "/v1",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !http.registered {
		t.Error("expected routes to be registered")
	}
	if http.basePath != "/v1" {
		t.Errorf("expected base path /v1, got %q", http.basePath)
	}
}

func TestNewPropagatesRouteError(t *testing.T) {
	http := &recordingHTTPAdapter{err: errors.New("route conflict")}
	_, err := New(Config{
		Secret:   testSecret,
		Database: services.NewFakeStorage(),
		HTTP:     http,
	})
	if err == nil {
		t.Fatal("expected route registration failure to surface")
	}
}

func TestNewClientValidation(t *testing.T) {
	storage := services.NewFakeStorage()
	server, err := New(Config{Secret: testSecret, Database: storage})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name    string
		config  ClientConfig
		wantErr error
	}{
		{"missing auth", ClientConfig{Tools: storage, Presenter: view.NewHeadless()}, ErrAuthProviderRequired},
		{"missing tools", ClientConfig{Auth: server.Auth, Presenter: view.NewHeadless()}, ErrStorageRequired},
		{"missing presenter", ClientConfig{Auth: server.Auth, Tools: storage}, ErrPresenterRequired},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewClient(test.config)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

// End-to-end: a client assembled over the server-side provider signs up,
// adds a tool, and sees it rendered.
func TestClientAgainstServerProvider(t *testing.T) {
	storage := services.NewFakeStorage()
	for _, tool := range SeedTools() {
		storage.SeedTool(*tool)
	}

	server, err := New(Config{Secret: testSecret, Database: storage})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	presenter := view.NewHeadless()
	client, err := NewClient(ClientConfig{
		Auth:      server.Auth,
		Tools:     storage,
		Presenter: presenter,
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Controller.Close()

	ctx := context.Background()
	if err := client.Controller.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if got, want := len(presenter.CardIDs()), len(SeedTools()); got != want {
		t.Fatalf("expected %d seeded cards, got %d", want, got)
	}

	if err := client.Controller.SignUp(ctx, core.SignUpInput{
		Email:    "viewer@example.com",
		Password: "long-enough-pass",
	}); err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	user := client.Controller.CurrentUser()
	if user == nil {
		t.Fatal("expected a signed-in user after sign-up")
	}

	tool, err := client.Controller.AddTool(ctx, ToolInput{
		Name:     "My Scratchpad",
		URL:      "https://example.com/pad",
		Category: core.CategoryWriting,
	})
	if err != nil {
		t.Fatalf("AddTool failed: %v", err)
	}
	if presenter.Card(tool.ID) == nil {
		t.Error("added tool did not reach the presenter")
	}

	if err := client.Controller.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	if presenter.Card(tool.ID) != nil {
		t.Error("custom tool still rendered after sign-out")
	}
}
