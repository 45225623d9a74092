package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT is set (LocalStack)
// every SDK client built from the returned config targets that URL instead of AWS.
func LoadAWSConfig(ctx context.Context, optFns ...func(*config.LoadOptions) error) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}

	endpoint := os.Getenv("AWS_ENDPOINT")
	if endpoint == "" {
		return cfg, nil
	}

	if os.Getenv("AWS_ACCESS_KEY_ID") == "" {
		// LocalStack accepts any key pair but the signer still needs one.
		cfg.Credentials = localCredentials()
	}

	signingRegion := cfg.Region
	if signingRegion == "" {
		signingRegion = os.Getenv("AWS_REGION")
	}

	// Same endpoint for all services so the LocalStack edge port is used.
	cfg.EndpointResolverWithOptions = sdkaws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (sdkaws.Endpoint, error) {
			sr := signingRegion
			if sr == "" {
				sr = region
			}
			return sdkaws.Endpoint{
				URL:               endpoint,
				SigningRegion:     sr,
				HostnameImmutable: true,
			}, nil
		})

	return cfg, nil
}

// WithRegion overrides the region picked up from the environment.
func WithRegion(region string) func(*config.LoadOptions) error {
	return func(o *config.LoadOptions) error {
		if region != "" {
			o.Region = region
		}
		return nil
	}
}

func localCredentials() sdkaws.CredentialsProvider {
	return sdkaws.NewCredentialsCache(credentials.NewStaticCredentialsProvider("test", "test", ""))
}
