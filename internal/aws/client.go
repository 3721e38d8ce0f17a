package aws

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type Error string

const (
	ErrNoCredentials      = Error("no AWS credentials found")
	ErrExpiredCredentials = Error("AWS credentials have expired")
	ErrNoConnection       = Error("no connection to AWS")
	ErrInvalidProfile     = Error("invalid AWS profile")
	ErrNotFound           = Error("AWS resource not found")
)

func (e Error) Error() string {
	return string(e)
}

// Connection hands out service clients for the active profile.
type Connection interface {
	Config() *ClientConfig
	ActiveProfile() string
	ActiveRegion() string
	S3(region string) *s3.Client
}

type ClientConfig struct {
	Profile string
	Region  string
	Timeout time.Duration
}

type APIClient struct {
	config  *ClientConfig
	clients map[string]*s3.Client
	mx      sync.RWMutex
}

var _ Connection = (*APIClient)(nil)

// NewAPIClient creates a new APIClient. Clients are created lazily per region.
func NewAPIClient(cfg *ClientConfig) (*APIClient, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	return &APIClient{
		config:  cfg,
		clients: make(map[string]*s3.Client),
	}, nil
}

// Config returns a copy of the client configuration.
func (c *APIClient) Config() *ClientConfig {
	c.mx.RLock()
	defer c.mx.RUnlock()
	cfg := *c.config
	return &cfg
}

// ActiveProfile returns the configured AWS profile.
func (c *APIClient) ActiveProfile() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.config.Profile
}

// ActiveRegion returns the configured AWS region.
func (c *APIClient) ActiveRegion() string {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return c.config.Region
}

// S3 returns an S3 client for region, or for the active region when empty.
// It returns nil when the AWS configuration cannot be loaded.
func (c *APIClient) S3(region string) *s3.Client {
	if region == "" {
		region = c.ActiveRegion()
	}
	client, err := c.getClient(region)
	if err != nil {
		return nil
	}
	return client
}

// getClient retrieves or creates the client for region.
func (c *APIClient) getClient(region string) (*s3.Client, error) {
	c.mx.RLock()
	key := c.config.Profile + ":" + region
	if client, ok := c.clients[key]; ok {
		c.mx.RUnlock()
		return client, nil
	}
	c.mx.RUnlock()

	c.mx.Lock()
	defer c.mx.Unlock()
	if client, ok := c.clients[key]; ok {
		return client, nil
	}

	ctx := context.Background()
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if c.config.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.config.Profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, WrapAWSError(err, "load AWS config")
	}
	client := s3.NewFromConfig(cfg)
	c.clients[key] = client

	return client, nil
}

// WrapAWSError wraps AWS SDK errors with additional context.
func WrapAWSError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "AccessDeniedException":
			return fmt.Errorf("access denied for %s: %w", operation, err)
		case "ExpiredToken", "ExpiredTokenException":
			return fmt.Errorf("%w: %s", ErrExpiredCredentials, operation)
		case "InvalidClientTokenId", "InvalidAccessKeyId":
			return fmt.Errorf("%w: %s", ErrNoCredentials, operation)
		case "NoSuchBucket", "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %s: %s", ErrNotFound, operation, apiErr.ErrorMessage())
		case "ThrottlingException", "SlowDown":
			return fmt.Errorf("rate limited during %s: %w", operation, err)
		default:
			return fmt.Errorf("%s failed: %s (%s)", operation, apiErr.ErrorMessage(), apiErr.ErrorCode())
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
