package actions

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amanshallow/freshDock/internal/logging"
	"github.com/amanshallow/freshDock/pkg/types"
)

// CheckImage decides whether one running image needs an update by comparing
// its local digest against the registry's remote config digest.
//
// The reference is normalized first (default tag, official-image namespace).
// A token or manifest failure degrades to OutcomeAuthOrNetworkError so the
// run can continue with the next image. HTTP 429 is reported as
// OutcomeRateLimited, which the caller treats as a condition of the whole
// run. An empty remote digest on an otherwise successful response is a
// resolution failure, never "update needed": it means the request did not
// succeed semantically even with a 200-class status.
func CheckImage(
	ctx context.Context,
	reg types.RegistryClient,
	ref types.ImageReference,
	localDigest string,
) types.UpdateOutcome {
	normalized := ref.Normalized()
	fields := logrus.Fields{
		"image":              normalized.String(),
		logging.CategoryField: logging.CategoryChecking,
	}

	logrus.WithFields(fields).Info("Checking for image update")

	token, err := reg.FetchToken(ctx, normalized.Repository)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Warn("Failed to obtain pull token, skipping image")

		return types.OutcomeAuthOrNetworkError
	}

	remoteDigest, status, err := reg.FetchManifestDigest(
		ctx,
		normalized.Repository,
		normalized.Tag,
		token,
	)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Warn("Failed to fetch manifest, skipping image")

		return types.OutcomeAuthOrNetworkError
	}

	if status == http.StatusTooManyRequests {
		return types.OutcomeRateLimited
	}

	if remoteDigest == "" {
		logrus.WithFields(fields).WithField("status", status).
			Warn("Registry returned no digest, skipping image")

		return types.OutcomeAuthOrNetworkError
	}

	if remoteDigest != localDigest {
		logrus.WithFields(fields).WithFields(logrus.Fields{
			"local_digest":  localDigest,
			"remote_digest": remoteDigest,
		}).Info("Update available")

		return types.OutcomeUpdateNeeded
	}

	logrus.WithFields(fields).Debug("Image is up to date")

	return types.OutcomeNotNeeded
}
