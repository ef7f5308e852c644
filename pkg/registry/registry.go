// Package registry resolves image references against their remote registry.
// It fetches anonymous pull tokens and V2 manifest config digests over HTTP,
// with a bounded retry budget so transient network failures surface as errors
// instead of hanging the run.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// ManifestV2ContentType is requested explicitly when fetching manifests;
// registries are not required to default to the Docker V2 schema.
const ManifestV2ContentType = "application/vnd.docker.distribution.manifest.v2+json"

// UserAgent identifies freshDock in outbound registry requests.
var UserAgent = "freshDock/unknown"

// Retry budget for outbound registry calls: a small fixed attempt count
// inside a bounded wall-clock window.
const (
	retryCount        = 3
	retryMaxElapsed   = 30 * time.Second
	retryInitialDelay = 500 * time.Millisecond
)

// Errors for registry operations.
var (
	// errEmptyToken indicates the token endpoint answered without a usable token.
	errEmptyToken = errors.New("registry returned an empty token")
	// errTokenRequestFailed indicates the token request could not be completed.
	errTokenRequestFailed = errors.New("failed to fetch registry token")
	// errManifestRequestFailed indicates the manifest request could not be completed.
	errManifestRequestFailed = errors.New("failed to fetch manifest")
	// errRetryBudgetExhausted indicates the bounded retry window was exceeded.
	errRetryBudgetExhausted = errors.New("retry budget exhausted")
)

// tokenResponse is the JSON shape of the registry auth service's reply.
type tokenResponse struct {
	Token string `json:"token"`
}

// manifestResponse is the subset of the V2 manifest body freshDock inspects:
// the content-addressed digest of the image configuration.
type manifestResponse struct {
	Config struct {
		Digest string `json:"digest"`
	} `json:"config"`
}

// Client fetches tokens and manifest digests for anonymously pullable images.
// The base URLs are exposed so tests can point the client at a mock registry.
type Client struct {
	// AuthBaseURL is the scheme+host of the token endpoint.
	AuthBaseURL string
	// RegistryBaseURL is the scheme+host of the V2 manifest API.
	RegistryBaseURL string
	// Service is the service parameter sent with token requests.
	Service string

	httpClient *http.Client
}

// NewClient returns a Client configured for the default registry with a
// bounded per-request timeout.
func NewClient() *Client {
	return &Client{
		AuthBaseURL:     "https://" + DefaultAuthHost,
		RegistryBaseURL: "https://" + DefaultRegistryHost,
		Service:         DefaultService,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchToken obtains an anonymous bearer token scoped to pulling the given
// repository. An empty or missing token in the response is treated as a
// failure; there is no unauthenticated fallback.
func (c *Client) FetchToken(ctx context.Context, repository string) (string, error) {
	fields := logrus.Fields{"repository": repository}

	tokenURL := fmt.Sprintf(
		"%s/token?scope=repository:%s:pull&service=%s",
		c.AuthBaseURL,
		url.QueryEscape(ScopePath(repository)),
		url.QueryEscape(c.Service),
	)
	logrus.WithFields(fields).WithField("url", tokenURL).Debug("Requesting pull token")

	body, _, err := c.get(ctx, tokenURL, nil)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Token request failed")

		return "", fmt.Errorf("%w: %w", errTokenRequestFailed, err)
	}

	var response tokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to decode token response")

		return "", fmt.Errorf("%w: %w", errTokenRequestFailed, err)
	}

	if response.Token == "" {
		logrus.WithFields(fields).Debug("Token endpoint answered without a token")

		return "", errEmptyToken
	}

	return response.Token, nil
}

// FetchManifestDigest requests the V2 manifest for repository:tag and returns
// the config digest together with the HTTP status code. The status is
// reported even for non-2xx responses so the caller can recognize the global
// 429 rate-limit condition; the digest may be empty when the body carries no
// config section.
func (c *Client) FetchManifestDigest(
	ctx context.Context,
	repository string,
	tag string,
	token string,
) (string, int, error) {
	fields := logrus.Fields{"repository": repository, "tag": tag}

	manifestURL := fmt.Sprintf(
		"%s/v2/%s/manifests/%s",
		c.RegistryBaseURL,
		ScopePath(repository),
		tag,
	)
	logrus.WithFields(fields).WithField("url", manifestURL).Debug("Requesting manifest")

	headers := map[string]string{
		"Authorization": "Bearer " + token,
		"Accept":        ManifestV2ContentType,
	}

	body, status, err := c.get(ctx, manifestURL, headers)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Manifest request failed")

		return "", 0, fmt.Errorf("%w: %w", errManifestRequestFailed, err)
	}

	var response manifestResponse
	// A non-JSON or digest-less body yields an empty digest, which the
	// decision step classifies as a resolution failure rather than an update.
	_ = json.Unmarshal(body, &response)

	digest := NormalizeDigest(response.Config.Digest)
	logrus.WithFields(fields).WithFields(logrus.Fields{
		"status":        status,
		"remote_digest": digest,
	}).Debug("Fetched manifest digest")

	return digest, status, nil
}

// get executes a GET request under the bounded retry budget. Transport-level
// failures are retried; any HTTP response, whatever its status code, is a
// terminal result returned to the caller.
func (c *Client) get(
	ctx context.Context,
	rawURL string,
	headers map[string]string,
) ([]byte, int, error) {
	var (
		body   []byte
		status int
	)

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		req.Header.Set("User-Agent", UserAgent)

		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			logrus.WithError(err).WithField("url", rawURL).Debug("Request attempt failed")

			return err
		}
		defer resp.Body.Close()

		status = resp.StatusCode

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = retryInitialDelay
	policy.MaxElapsedTime = retryMaxElapsed

	err := backoff.Retry(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, retryCount), ctx),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errRetryBudgetExhausted, err)
	}

	return body, status, nil
}
