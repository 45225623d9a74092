package config

import (
	"context"
	"fmt"
	"os"
	"sort"
)

// Credentials is a flat set of secret values keyed by env var name
// (POSTGRES_PASSWORD, SMTP_PASSWORD, ...).
type Credentials map[string]string

func (c Credentials) Get(key string) string {
	return c[key]
}

// GetOr returns the value for key or fallback when it is empty.
func (c Credentials) GetOr(key, fallback string) string {
	if v := c[key]; v != "" {
		return v
	}
	return fallback
}

// Require returns an error naming every key whose value is empty.
func (c Credentials) Require(keys ...string) error {
	var missing []string
	for _, k := range keys {
		if c[k] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required credentials: %v", missing)
	}
	return nil
}

// CredentialResolver produces the credentials for an environment.
type CredentialResolver interface {
	Resolve(ctx context.Context, env string) (Credentials, error)
}

// EnvResolver reads each key from the process environment.
type EnvResolver struct {
	Keys []string
}

func (r EnvResolver) Resolve(_ context.Context, _ string) (Credentials, error) {
	creds := make(Credentials, len(r.Keys))
	for _, k := range r.Keys {
		creds[k] = os.Getenv(k)
	}
	return creds, nil
}

// SecretGetter is satisfied by pkg/aws.SecretsClient.
type SecretGetter interface {
	GetSecretJSON(ctx context.Context, name string) (map[string]string, error)
}

// SecretsManagerResolver reads one JSON secret. Keys absent from the secret fall
// back to the environment so non-secret settings can stay in env vars.
type SecretsManagerResolver struct {
	SecretID string
	Client   SecretGetter
	Keys     []string
}

func (r SecretsManagerResolver) Resolve(ctx context.Context, env string) (Credentials, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("secrets manager client not configured for %s", env)
	}
	values, err := r.Client.GetSecretJSON(ctx, r.SecretID)
	if err != nil {
		return nil, fmt.Errorf("resolve %s credentials: %w", env, err)
	}

	creds, _ := EnvResolver{Keys: r.Keys}.Resolve(ctx, env)
	for k, v := range values {
		if v != "" {
			creds[k] = v
		}
	}
	return creds, nil
}

// NewResolver returns the Secrets Manager resolver in prod and the env resolver
// otherwise.
func NewResolver(env, secretID string, client SecretGetter, keys ...string) CredentialResolver {
	if env == EnvProd && secretID != "" {
		return SecretsManagerResolver{SecretID: secretID, Client: client, Keys: keys}
	}
	return EnvResolver{Keys: keys}
}
