package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when the referenced secret or version does not exist.
var ErrNotFound = errors.New("secrets: secret not found")

var secretManagerClientFactory = func(ctx context.Context, opts ...option.ClientOption) (secretManagerClient, error) {
	return secretmanager.NewClient(ctx, opts...)
}

type secretManagerClient interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

// Fetcher resolves secret:// references against Google Secret Manager and caches the results.
// The client is created on first use so configurations without references never dial out.
type Fetcher struct {
	logger     *zap.Logger
	projectID  string
	clientOpts []option.ClientOption

	clientOnce sync.Once
	clientErr  error
	client     secretManagerClient
	ownsClient bool

	mu    sync.RWMutex
	cache map[string]string
}

// Option customises Fetcher construction.
type Option func(*Fetcher)

// WithLogger sets the logger used for diagnostic output.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithSecretManagerClient injects a preconfigured Secret Manager client (primarily for tests).
func WithSecretManagerClient(client secretManagerClient) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithClientOptions forwards Cloud client options when constructing the Secret Manager client.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(f *Fetcher) {
		f.clientOpts = append(f.clientOpts, opts...)
	}
}

// NewFetcher builds a Fetcher for the given default project.
func NewFetcher(projectID string, opts ...Option) *Fetcher {
	f := &Fetcher{
		logger:    zap.NewNop(),
		projectID: strings.TrimSpace(projectID),
		cache:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// ResolveSecret satisfies config.SecretResolver.
func (f *Fetcher) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f.Resolve(ctx, ref)
}

// Resolve returns the payload of the referenced secret version.
func (f *Fetcher) Resolve(ctx context.Context, ref string) (string, error) {
	resource, err := f.resourceName(ref)
	if err != nil {
		return "", err
	}

	f.mu.RLock()
	value, ok := f.cache[resource]
	f.mu.RUnlock()
	if ok {
		return value, nil
	}

	client, err := f.ensureClient(ctx)
	if err != nil {
		return "", err
	}

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: resource})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", fmt.Errorf("%w: %s", ErrNotFound, resource)
		}
		return "", fmt.Errorf("secrets: access %s: %w", resource, err)
	}
	if resp == nil || resp.GetPayload() == nil {
		return "", fmt.Errorf("secrets: empty payload for %s", resource)
	}

	value = string(resp.GetPayload().GetData())
	f.mu.Lock()
	f.cache[resource] = value
	f.mu.Unlock()

	f.logger.Debug("secrets: resolved reference", zap.String("resource", resource))
	return value, nil
}

// Close releases the Secret Manager client when the fetcher created it.
func (f *Fetcher) Close() error {
	if f.ownsClient && f.client != nil {
		return f.client.Close()
	}
	return nil
}

func (f *Fetcher) ensureClient(ctx context.Context) (secretManagerClient, error) {
	f.clientOnce.Do(func() {
		if f.client != nil {
			return
		}
		client, err := secretManagerClientFactory(ctx, f.clientOpts...)
		if err != nil {
			f.clientErr = fmt.Errorf("secrets: create secret manager client: %w", err)
			return
		}
		f.client = client
		f.ownsClient = true
	})
	return f.client, f.clientErr
}

// resourceName maps secret://name[@version] or secret://projects/p/secrets/name[/versions/v]
// to a fully qualified version resource.
func (f *Fetcher) resourceName(ref string) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if strings.HasPrefix(trimmed, "sm://") {
		trimmed = "secret://" + strings.TrimPrefix(trimmed, "sm://")
	}
	if !strings.HasPrefix(trimmed, "secret://") {
		return "", fmt.Errorf("secrets: unsupported reference %q", ref)
	}
	body := strings.Trim(strings.TrimPrefix(trimmed, "secret://"), "/")
	if body == "" {
		return "", fmt.Errorf("secrets: empty reference %q", ref)
	}

	if strings.HasPrefix(body, "projects/") {
		if !strings.Contains(body, "/versions/") {
			body += "/versions/latest"
		}
		return body, nil
	}

	name, version, found := strings.Cut(body, "@")
	if !found || version == "" {
		version = "latest"
	}
	if f.projectID == "" {
		return "", fmt.Errorf("secrets: project id required to resolve %q", ref)
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/%s", f.projectID, name, version), nil
}
