package registry

import (
	"fmt"
	"strings"

	"github.com/distribution/reference"
)

// Hosts involved in anonymous pulls from Docker Hub, the default registry.
const (
	// DefaultRegistryDomain is the canonical domain of the default registry.
	DefaultRegistryDomain = "docker.io"
	// DefaultRegistryHost serves the V2 manifest API for the default registry.
	DefaultRegistryHost = "registry-1.docker.io"
	// DefaultAuthHost serves the token endpoint for the default registry.
	DefaultAuthHost = "auth.docker.io"
	// DefaultService is the service name expected by the token endpoint.
	DefaultService = "registry.docker.io"
)

// ScopePath returns the repository path used in token scopes and manifest
// URLs (e.g. "library/ubuntu"). It runs the repository through the reference
// parser so irregular input collapses to the canonical path; unparseable
// input is returned as-is and left for the registry to reject.
func ScopePath(repository string) string {
	normalizedRef, err := reference.ParseNormalizedNamed(repository)
	if err != nil {
		return repository
	}

	return reference.Path(normalizedRef)
}

// RegistryAddress extracts the manifest API host for an image repository,
// mapping the default registry's domain to its canonical V2 host.
func RegistryAddress(repository string) (string, error) {
	normalizedRef, err := reference.ParseNormalizedNamed(repository)
	if err != nil {
		return "", fmt.Errorf("failed to parse image reference: %w", err)
	}

	address := reference.Domain(normalizedRef)
	if address == DefaultRegistryDomain {
		address = DefaultRegistryHost
	}

	return address, nil
}

// NormalizeDigest standardizes a digest string for consistent comparison.
// It trims the algorithm prefix (e.g. "sha256:") so digests from the runtime
// and the registry compare equal regardless of formatting.
func NormalizeDigest(digest string) string {
	prefixes := []string{"sha256:"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(digest, prefix) {
			return strings.TrimPrefix(digest, prefix)
		}
	}

	return digest
}
