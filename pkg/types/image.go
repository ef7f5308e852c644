package types

import "strings"

// Default reference components for images hosted on the official registry.
const (
	// DefaultTag is assumed whenever an image reference carries no explicit tag.
	DefaultTag = "latest"
	// OfficialNamespace is the namespace Docker Hub uses for official images
	// referenced without an explicit namespace (e.g. "ubuntu" -> "library/ubuntu").
	OfficialNamespace = "library"
)

// ImageReference identifies an image by repository and tag, as reported by the
// container runtime (e.g. "myorg/app" + "v2"). The repository is kept in the
// form the runtime reported it; Normalized applies registry defaults.
type ImageReference struct {
	Repository string // Name portion of the reference, excluding tag.
	Tag        string // Tag portion; may be empty.
}

// ParseImageReference splits a runtime-reported "repository:tag" string into an
// ImageReference. The tag separator is the last colon that is not part of a
// registry host port (i.e. not followed by a slash). A missing tag yields an
// empty Tag field; Normalized supplies the default.
func ParseImageReference(image string) ImageReference {
	idx := strings.LastIndex(image, ":")
	if idx < 0 || strings.Contains(image[idx:], "/") {
		return ImageReference{Repository: image}
	}

	return ImageReference{
		Repository: image[:idx],
		Tag:        image[idx+1:],
	}
}

// Normalized returns a copy of the reference with registry defaults applied:
// an empty tag becomes DefaultTag and a repository without a namespace
// separator gains the OfficialNamespace prefix, matching how the registry
// itself resolves bare official-image names.
func (r ImageReference) Normalized() ImageReference {
	normalized := r
	if normalized.Tag == "" {
		normalized.Tag = DefaultTag
	}

	if !strings.Contains(normalized.Repository, "/") {
		normalized.Repository = OfficialNamespace + "/" + normalized.Repository
	}

	return normalized
}

// String renders the reference in "repository:tag" form, omitting the colon
// when no tag is set.
func (r ImageReference) String() string {
	if r.Tag == "" {
		return r.Repository
	}

	return r.Repository + ":" + r.Tag
}
