package secrets

import (
	"context"
	"errors"
	"sync"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestResolveCachesRemoteSecret(t *testing.T) {
	t.Parallel()

	client := newFakeSecretClient()
	resource := "projects/taebaek/secrets/supabase-anon-key/versions/latest"
	client.values[resource] = "anon"

	fetcher := NewFetcher("taebaek", WithSecretManagerClient(client))

	for i := 0; i < 2; i++ {
		got, err := fetcher.Resolve(context.Background(), "secret://supabase-anon-key")
		require.NoError(t, err)
		require.Equal(t, "anon", got)
	}
	require.Equal(t, 1, client.callCount(resource))
}

func TestResolveSupportsVersionsAndQualifiedNames(t *testing.T) {
	t.Parallel()

	client := newFakeSecretClient()
	client.values["projects/taebaek/secrets/csrf/versions/3"] = "pinned"
	client.values["projects/other/secrets/dsn/versions/latest"] = "postgres://"

	fetcher := NewFetcher("taebaek", WithSecretManagerClient(client))

	got, err := fetcher.ResolveSecret(context.Background(), "sm://csrf@3")
	require.NoError(t, err)
	require.Equal(t, "pinned", got)

	got, err = fetcher.Resolve(context.Background(), "secret://projects/other/secrets/dsn")
	require.NoError(t, err)
	require.Equal(t, "postgres://", got)
}

func TestResolveMapsNotFound(t *testing.T) {
	t.Parallel()

	fetcher := NewFetcher("taebaek", WithSecretManagerClient(newFakeSecretClient()))

	_, err := fetcher.Resolve(context.Background(), "secret://missing")
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveRequiresProjectForShortReferences(t *testing.T) {
	t.Parallel()

	fetcher := NewFetcher("", WithSecretManagerClient(newFakeSecretClient()))

	_, err := fetcher.Resolve(context.Background(), "secret://anything")
	require.Error(t, err)

	_, err = fetcher.Resolve(context.Background(), "https://not-a-secret")
	require.Error(t, err)
}

type fakeSecretClient struct {
	mu      sync.Mutex
	values  map[string]string
	counter map[string]int
}

func newFakeSecretClient() *fakeSecretClient {
	return &fakeSecretClient{
		values:  make(map[string]string),
		counter: make(map[string]int),
	}
}

func (f *fakeSecretClient) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := req.GetName()
	f.counter[name]++
	if value, ok := f.values[name]; ok {
		return &secretmanagerpb.AccessSecretVersionResponse{
			Payload: &secretmanagerpb.SecretPayload{Data: []byte(value)},
		}, nil
	}
	return nil, status.Error(codes.NotFound, "not found")
}

func (f *fakeSecretClient) Close() error { return nil }

func (f *fakeSecretClient) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counter[name]
}
