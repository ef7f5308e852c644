package registry_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/amanshallow/freshDock/pkg/registry"
)

// newTestClient points a registry client at the given mock server for both
// the auth and manifest endpoints.
func newTestClient(server *httptest.Server) *registry.Client {
	client := registry.NewClient()
	client.AuthBaseURL = server.URL
	client.RegistryBaseURL = server.URL

	return client
}

var _ = ginkgo.Describe("the registry client", func() {
	ginkgo.Describe("fetching a pull token", func() {
		ginkgo.It("requests the repository pull scope and returns the token", func() {
			var requestedScope, requestedService string

			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					requestedScope = r.URL.Query().Get("scope")
					requestedService = r.URL.Query().Get("service")
					fmt.Fprint(w, `{"token":"anon-token"}`)
				}),
			)
			defer server.Close()

			token, err := newTestClient(server).FetchToken(context.Background(), "library/ubuntu")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(token).To(gomega.Equal("anon-token"))
			gomega.Expect(requestedScope).To(gomega.Equal("repository:library/ubuntu:pull"))
			gomega.Expect(requestedService).To(gomega.Equal("registry.docker.io"))
		})

		ginkgo.It("treats an empty token as a failure", func() {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					fmt.Fprint(w, `{"token":""}`)
				}),
			)
			defer server.Close()

			_, err := newTestClient(server).FetchToken(context.Background(), "library/ubuntu")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("fails on an unparseable response body", func() {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					fmt.Fprint(w, "not json")
				}),
			)
			defer server.Close()

			_, err := newTestClient(server).FetchToken(context.Background(), "library/ubuntu")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("fetching a manifest digest", func() {
		ginkgo.It("sends the bearer token and manifest accept header", func() {
			var authorization, accept, path string

			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					authorization = r.Header.Get("Authorization")
					accept = r.Header.Get("Accept")
					path = r.URL.Path
					fmt.Fprint(w, `{"config":{"digest":"sha256:abc123"}}`)
				}),
			)
			defer server.Close()

			digest, status, err := newTestClient(server).
				FetchManifestDigest(context.Background(), "library/ubuntu", "latest", "anon-token")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(status).To(gomega.Equal(http.StatusOK))
			gomega.Expect(digest).To(gomega.Equal("abc123"))
			gomega.Expect(authorization).To(gomega.Equal("Bearer anon-token"))
			gomega.Expect(accept).To(gomega.Equal(registry.ManifestV2ContentType))
			gomega.Expect(path).To(gomega.Equal("/v2/library/ubuntu/manifests/latest"))
		})

		ginkgo.It("passes the status code through for rate-limited responses", func() {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusTooManyRequests)
				}),
			)
			defer server.Close()

			digest, status, err := newTestClient(server).
				FetchManifestDigest(context.Background(), "library/ubuntu", "latest", "anon-token")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(status).To(gomega.Equal(http.StatusTooManyRequests))
			gomega.Expect(digest).To(gomega.BeEmpty())
		})

		ginkgo.It("returns an empty digest when the body has no config section", func() {
			server := httptest.NewServer(
				http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					fmt.Fprint(w, `{"schemaVersion":2}`)
				}),
			)
			defer server.Close()

			digest, status, err := newTestClient(server).
				FetchManifestDigest(context.Background(), "library/ubuntu", "latest", "anon-token")

			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(status).To(gomega.Equal(http.StatusOK))
			gomega.Expect(digest).To(gomega.BeEmpty())
		})

		ginkgo.It("surfaces a network failure as an error instead of hanging", func() {
			server := httptest.NewServer(http.NotFoundHandler())
			server.Close() // Unreachable endpoint.

			_, _, err := newTestClient(server).
				FetchManifestDigest(context.Background(), "library/ubuntu", "latest", "anon-token")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})

var _ = ginkgo.Describe("registry helpers", func() {
	ginkgo.It("normalizes digests by stripping the algorithm prefix", func() {
		gomega.Expect(registry.NormalizeDigest("sha256:abc123")).To(gomega.Equal("abc123"))
		gomega.Expect(registry.NormalizeDigest("abc123")).To(gomega.Equal("abc123"))
	})

	ginkgo.It("resolves the scope path for official images", func() {
		gomega.Expect(registry.ScopePath("ubuntu")).To(gomega.Equal("library/ubuntu"))
		gomega.Expect(registry.ScopePath("myorg/app")).To(gomega.Equal("myorg/app"))
	})

	ginkgo.It("maps the default registry domain to its canonical host", func() {
		address, err := registry.RegistryAddress("library/ubuntu")
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(address).To(gomega.Equal(registry.DefaultRegistryHost))
	})
})
