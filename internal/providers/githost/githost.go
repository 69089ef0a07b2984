package githost

import (
	"context"
	"errors"
)

// ErrNoDocument reports that no (branch, filename) candidate yielded a
// non-empty document. Callers fall back to metadata retrieval.
var ErrNoDocument = errors.New("no document found at any candidate path")

// Metadata is the structured repository description used as fallback
// grounding when no long-form document exists.
type Metadata struct {
	Name            string
	Description     string
	PrimaryLanguage string
	Topics          []string
	Stars           int
	Forks           int
	Homepage        string
}

// Client fetches human-readable context about a repository from the content
// host.
type Client interface {
	// FetchDocument probes the fixed (branch, filename) candidate order and
	// returns the body of the first candidate with a non-empty response,
	// truncated to the grounding cap. Returns ErrNoDocument when the whole
	// candidate list is exhausted.
	FetchDocument(ctx context.Context, ref Reference) (string, error)

	// FetchMetadata queries the structured repository metadata endpoint.
	FetchMetadata(ctx context.Context, ref Reference) (*Metadata, error)
}

// Candidate precedence. Document probing walks the cross-product
// branches x filenames in this exact order and stops at the first hit;
// the order is part of the retrieval contract, so probing is strictly
// sequential, never raced.
var (
	branchCandidates   = []string{"main", "master", "develop"}
	filenameCandidates = []string{"README.md", "readme.md", "README.MD", "Readme.md", "README"}
)
