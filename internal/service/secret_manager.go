package service

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// SecretManagerService reads secret payloads from GCP Secret Manager.
type SecretManagerService interface {
	Access(ctx context.Context, resourceName string) (string, error)
	Close() error
}

type secretManagerService struct {
	client *secretmanager.Client
}

// NewSecretManagerService needs application default credentials. Secret
// Manager has no emulator, so local runs use JWT_SECRET instead.
func NewSecretManagerService(ctx context.Context, opts ...option.ClientOption) (SecretManagerService, error) {
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerService{client: client}, nil
}

// Access returns the payload of a version such as
// projects/p/secrets/s/versions/latest.
func (s *secretManagerService) Access(ctx context.Context, resourceName string) (string, error) {
	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return string(result.Payload.Data), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

// ResolveSigningSecret returns the session signing secret. A configured
// resource takes precedence over the literal value.
func ResolveSigningSecret(ctx context.Context, sm SecretManagerService, resource, literal string) (string, error) {
	if resource == "" {
		return literal, nil
	}
	if sm == nil {
		return "", fmt.Errorf("secret resource %s set without a Secret Manager client", resource)
	}
	secret, err := sm.Access(ctx, resource)
	if err != nil {
		return "", err
	}
	if secret == "" {
		return "", fmt.Errorf("secret %s is empty", resource)
	}
	return secret, nil
}
