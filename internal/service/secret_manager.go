package service

import (
	"context"
	"fmt"
	"strings"

	"coursehub/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// SecretAccessor reads the payload of a secret version
type SecretAccessor interface {
	AccessSecret(ctx context.Context, resource string) (string, error)
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

// NewSecretManagerService creates a Secret Manager backed SecretAccessor
func NewSecretManagerService(ctx context.Context, cfg *config.Config) (SecretAccessor, func() error, error) {
	if cfg.GCPProjectID == "" {
		return nil, nil, fmt.Errorf("GCP project ID is not set")
	}
	var opts []option.ClientOption
	if cfg.GCPCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPCredentialsFile))
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &secretManagerService{client: client, projectID: cfg.GCPProjectID}, client.Close, nil
}

// SecretVersionName expands a short secret name to its latest version resource.
func SecretVersionName(projectID, resource string) string {
	if strings.HasPrefix(resource, "projects/") {
		if strings.Contains(resource, "/versions/") {
			return resource
		}
		return resource + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, resource)
}

func (s *secretManagerService) AccessSecret(ctx context.Context, resource string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: SecretVersionName(s.projectID, resource),
	}
	result, err := s.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return strings.TrimSpace(string(result.Payload.Data)), nil
}

// ResolveSecrets overrides config values whose SECRET_*_RESOURCE is set.
func ResolveSecrets(ctx context.Context, cfg *config.Config, secrets SecretAccessor) error {
	targets := []struct {
		resource string
		dest     *string
	}{
		{cfg.SecretJWTResource, &cfg.JWTSecret},
		{cfg.SecretStripeResource, &cfg.StripeSecretKey},
	}
	for _, t := range targets {
		if t.resource == "" {
			continue
		}
		value, err := secrets.AccessSecret(ctx, t.resource)
		if err != nil {
			return fmt.Errorf("resolve secret %s: %w", t.resource, err)
		}
		*t.dest = value
	}
	return nil
}
