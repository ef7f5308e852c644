package actions_test

import (
	"context"
	"errors"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/amanshallow/freshDock/internal/actions"
	"github.com/amanshallow/freshDock/internal/actions/mocks"
	"github.com/amanshallow/freshDock/pkg/session"
	"github.com/amanshallow/freshDock/pkg/types"
)

var _ = Describe("running an update pass", func() {
	var (
		client   *mocks.Client
		registry *mocks.Registry
		runner   *mocks.Runner
		notifier *mocks.Notifier
	)

	// ref adds one running container to the fixture inventory.
	ref := func(repository string, tag string, dir string, localDigest string) {
		client.Inventory.Running = append(client.Inventory.Running, types.ImageReference{
			Repository: repository,
			Tag:        tag,
		})
		client.Inventory.ProjectDirs[repository] = dir
		client.Inventory.LocalDigests[repository] = localDigest
	}

	run := func() (*session.Report, error) {
		return actions.Update(context.Background(), client, registry, runner, notifier)
	}

	BeforeEach(func() {
		client = &mocks.Client{Inventory: types.NewInventory()}
		registry = &mocks.Registry{
			Token:   "test-token",
			Results: map[string]mocks.ManifestResult{},
		}
		runner = &mocks.Runner{}
		notifier = &mocks.Notifier{}
	})

	When("every image is up to date", func() {
		It("never touches the compose runner", func() {
			ref("myorg/app", "v1", "/srv/app", "abc123")
			registry.Results["myorg/app"] = mocks.ManifestResult{Digest: "abc123"}

			report, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Fresh()).To(HaveLen(1))
			Expect(runner.PullCalls).To(BeEmpty())
			Expect(runner.UpCalls).To(BeEmpty())
		})
	})

	When("an image has a newer remote digest", func() {
		It("pulls and recreates in its project directory and notifies at normal priority", func() {
			ref("myorg/app", "v1", "/srv/app", "abc123")
			registry.Results["myorg/app"] = mocks.ManifestResult{Digest: "def456"}

			report, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Applied()).To(HaveLen(1))
			Expect(runner.PullCalls).To(Equal([]string{"/srv/app"}))
			Expect(runner.UpCalls).To(Equal([]string{"/srv/app"}))
			Expect(notifier.Notifications).To(HaveLen(1))
			Expect(notifier.Notifications[0].Priority).To(Equal(types.PriorityNormal))
			Expect(notifier.Notifications[0].Message).To(ContainSubstring("myorg/app:v1"))
		})
	})

	When("a manifest resolves without a digest", func() {
		It("records a skip instead of applying an update", func() {
			ref("myorg/app", "v1", "/srv/app", "abc123")
			registry.Results["myorg/app"] = mocks.ManifestResult{
				Digest: "",
				Status: http.StatusOK,
			}

			report, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Skipped()).To(HaveLen(1))
			Expect(report.Applied()).To(BeEmpty())
			Expect(runner.PullCalls).To(BeEmpty())
		})
	})

	When("the registry rate limits mid-run", func() {
		It("stops after one error notification and reports the rate limit", func() {
			ref("myorg/app", "v1", "/srv/app", "abc123")
			ref("myorg/web", "v2", "/srv/web", "aaa111")
			ref("myorg/db", "v3", "/srv/db", "bbb222")
			registry.Results["myorg/app"] = mocks.ManifestResult{Digest: "abc123"}
			registry.Results["myorg/web"] = mocks.ManifestResult{
				Status: http.StatusTooManyRequests,
			}
			registry.Results["myorg/db"] = mocks.ManifestResult{Digest: "ccc333"}

			report, err := run()
			Expect(err).To(MatchError(actions.ErrRateLimited))

			// The image after the rate limit is never checked.
			Expect(registry.ManifestCalls).To(Equal([]string{"myorg/app", "myorg/web"}))
			Expect(runner.PullCalls).To(BeEmpty())

			Expect(notifier.Notifications).To(HaveLen(1))
			Expect(notifier.Notifications[0].Priority).To(Equal(types.PriorityHigh))
			Expect(notifier.Notifications[0].Message).To(ContainSubstring("429"))

			Expect(report.Fresh()).To(HaveLen(1))
		})
	})

	When("one image fails to pull", func() {
		It("records the failure and still updates the remaining images", func() {
			ref("myorg/app", "v1", "/srv/app", "abc123")
			ref("myorg/web", "v2", "/srv/web", "aaa111")
			registry.Results["myorg/app"] = mocks.ManifestResult{Digest: "def456"}
			registry.Results["myorg/web"] = mocks.ManifestResult{Digest: "bbb222"}
			runner.PullErrs = map[string]error{"/srv/app": errors.New("pull access denied")}

			report, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Failed()).To(HaveLen(1))
			Expect(report.Applied()).To(HaveLen(1))

			// The failed pull never reaches the recreate step.
			Expect(runner.UpCalls).To(Equal([]string{"/srv/web"}))

			Expect(notifier.Notifications).To(HaveLen(2))
			Expect(notifier.Notifications[0].Priority).To(Equal(types.PriorityHigh))
			Expect(notifier.Notifications[1].Priority).To(Equal(types.PriorityNormal))
		})
	})

	When("the recreate step fails after a successful pull", func() {
		It("records the failure at high priority", func() {
			ref("myorg/app", "v1", "/srv/app", "abc123")
			registry.Results["myorg/app"] = mocks.ManifestResult{Digest: "def456"}
			runner.UpErrs = map[string]error{"/srv/app": errors.New("port already allocated")}

			report, err := run()
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Failed()).To(HaveLen(1))
			Expect(notifier.Notifications).To(HaveLen(1))
			Expect(notifier.Notifications[0].Priority).To(Equal(types.PriorityHigh))
			Expect(notifier.Notifications[0].Message).To(ContainSubstring("recreate"))
		})
	})

	When("the inventory cannot be built", func() {
		It("fails the pass before any registry call", func() {
			client.InventoryErr = errors.New("daemon unavailable")

			_, err := run()
			Expect(err).To(HaveOccurred())
			Expect(registry.TokenCalls).To(BeEmpty())
		})
	})
})
