package aws

import (
	"context"
	"errors"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecretsAPI struct {
	calls int
	value *string
	err   error
}

func (f *fakeSecretsAPI) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestSecretsClient_CachesValue(t *testing.T) {
	fake := &fakeSecretsAPI{value: sdkaws.String(`{"POSTGRES_PASSWORD":"pw"}`)}
	client := newSecretsClient(fake)

	m, err := client.GetSecretJSON(context.Background(), "orders/credentials")
	require.NoError(t, err)
	assert.Equal(t, "pw", m["POSTGRES_PASSWORD"])

	_, err = client.GetSecret(context.Background(), "orders/credentials")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestSecretsClient_NotFound(t *testing.T) {
	fake := &fakeSecretsAPI{err: &smithy.GenericAPIError{Code: "ResourceNotFoundException", Message: "nope"}}
	client := newSecretsClient(fake)

	_, err := client.GetSecret(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrSecretNotFound))
}

func TestSecretsClient_OtherErrorWrapped(t *testing.T) {
	boom := errors.New("throttled")
	client := newSecretsClient(&fakeSecretsAPI{err: boom})

	_, err := client.GetSecret(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrSecretNotFound))
}

func TestSecretsClient_RejectsNonObject(t *testing.T) {
	client := newSecretsClient(&fakeSecretsAPI{value: sdkaws.String(`"plain"`)})

	_, err := client.GetSecretJSON(context.Background(), "x")
	assert.Error(t, err)
}
