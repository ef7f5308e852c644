package actions_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amanshallow/freshDock/internal/actions"
	"github.com/amanshallow/freshDock/internal/actions/mocks"
	"github.com/amanshallow/freshDock/pkg/types"
)

var _ = Describe("checking a single image", func() {
	var registry *mocks.Registry

	BeforeEach(func() {
		registry = &mocks.Registry{
			Token:   "test-token",
			Results: map[string]mocks.ManifestResult{},
		}
	})

	When("the remote digest matches the local one", func() {
		It("reports no update needed", func() {
			registry.Results["myorg/app"] = mocks.ManifestResult{Digest: "abc123"}

			outcome := actions.CheckImage(
				context.Background(),
				registry,
				types.ImageReference{Repository: "myorg/app", Tag: "v1"},
				"abc123",
			)
			Expect(outcome).To(Equal(types.OutcomeNotNeeded))
		})
	})

	When("the remote digest differs from the local one", func() {
		It("reports an update is needed", func() {
			registry.Results["myorg/app"] = mocks.ManifestResult{Digest: "def456"}

			outcome := actions.CheckImage(
				context.Background(),
				registry,
				types.ImageReference{Repository: "myorg/app", Tag: "v1"},
				"abc123",
			)
			Expect(outcome).To(Equal(types.OutcomeUpdateNeeded))
		})
	})

	When("the image reference has no tag or namespace", func() {
		It("queries the registry with the normalized reference", func() {
			registry.Results["library/ubuntu"] = mocks.ManifestResult{Digest: "abc123"}

			outcome := actions.CheckImage(
				context.Background(),
				registry,
				types.ImageReference{Repository: "ubuntu"},
				"abc123",
			)
			Expect(outcome).To(Equal(types.OutcomeNotNeeded))
			Expect(registry.TokenCalls).To(ConsistOf("library/ubuntu"))
			Expect(registry.ManifestCalls).To(ConsistOf("library/ubuntu"))
		})
	})

	When("the token request fails", func() {
		It("degrades to an auth or network error without fetching the manifest", func() {
			registry.TokenErrs = map[string]error{
				"myorg/app": errors.New("connection refused"),
			}

			outcome := actions.CheckImage(
				context.Background(),
				registry,
				types.ImageReference{Repository: "myorg/app", Tag: "v1"},
				"abc123",
			)
			Expect(outcome).To(Equal(types.OutcomeAuthOrNetworkError))
			Expect(registry.ManifestCalls).To(BeEmpty())
		})
	})

	When("the manifest request fails", func() {
		It("degrades to an auth or network error", func() {
			registry.Results["myorg/app"] = mocks.ManifestResult{
				Err: errors.New("connection reset"),
			}

			outcome := actions.CheckImage(
				context.Background(),
				registry,
				types.ImageReference{Repository: "myorg/app", Tag: "v1"},
				"abc123",
			)
			Expect(outcome).To(Equal(types.OutcomeAuthOrNetworkError))
		})
	})

	When("the registry answers with HTTP 429", func() {
		It("reports the rate limit", func() {
			registry.Results["myorg/app"] = mocks.ManifestResult{
				Status: http.StatusTooManyRequests,
			}

			outcome := actions.CheckImage(
				context.Background(),
				registry,
				types.ImageReference{Repository: "myorg/app", Tag: "v1"},
				"abc123",
			)
			Expect(outcome).To(Equal(types.OutcomeRateLimited))
		})
	})

	When("the registry returns a successful response without a digest", func() {
		It("treats the image as unresolved, never as update needed", func() {
			registry.Results["myorg/app"] = mocks.ManifestResult{
				Digest: "",
				Status: http.StatusOK,
			}

			outcome := actions.CheckImage(
				context.Background(),
				registry,
				types.ImageReference{Repository: "myorg/app", Tag: "v1"},
				"abc123",
			)
			Expect(outcome).To(Equal(types.OutcomeAuthOrNetworkError))
		})
	})
})
