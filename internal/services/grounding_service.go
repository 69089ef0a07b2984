package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devgrill/devgrill/internal/models"
	"github.com/devgrill/devgrill/internal/providers/githost"
	"github.com/devgrill/devgrill/internal/utils"
)

type GroundingService interface {
	// Retrieve resolves grounding text for a repository. Exactly one
	// context is produced; a document is preferred over metadata. When
	// neither strategy yields anything the error wraps
	// utils.ErrGroundingUnavailable and interview creation must abort.
	Retrieve(ctx context.Context, ref githost.Reference) (*models.GroundingContext, error)
}

// groundingStrategy is one way of obtaining grounding text. Strategies are
// evaluated left-to-right; the first that returns a context wins. A (nil,
// err) result is a miss and moves on to the next strategy.
type groundingStrategy func(ctx context.Context, ref githost.Reference) (*models.GroundingContext, error)

type groundingService struct {
	host       githost.Client
	logger     *logrus.Logger
	strategies []groundingStrategy
}

func NewGroundingService(host githost.Client, logger *logrus.Logger) GroundingService {
	s := &groundingService{host: host, logger: logger}
	s.strategies = []groundingStrategy{s.documentStrategy, s.metadataStrategy}
	return s
}

func (s *groundingService) Retrieve(ctx context.Context, ref githost.Reference) (*models.GroundingContext, error) {
	const op = "GroundingService.Retrieve"

	if ref.Owner == "" || ref.Project == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "owner and project are required", utils.ErrInvalidReference)
	}

	for _, strategy := range s.strategies {
		gc, err := strategy(ctx, ref)
		if err != nil {
			if ctx.Err() != nil {
				return nil, utils.E(utils.CodeTimeout, op, "grounding retrieval cancelled", ctx.Err())
			}
			s.logger.WithField("repository", ref.String()).WithError(err).Warn("grounding strategy miss")
			continue
		}
		if gc != nil {
			return gc, nil
		}
	}

	return nil, utils.E(utils.CodeUnavailable, op, "no document or metadata obtainable for repository", utils.ErrGroundingUnavailable)
}

func (s *groundingService) documentStrategy(ctx context.Context, ref githost.Reference) (*models.GroundingContext, error) {
	text, err := s.host.FetchDocument(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &models.GroundingContext{
		Kind:      models.GroundingDocument,
		Text:      text,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func (s *groundingService) metadataStrategy(ctx context.Context, ref githost.Reference) (*models.GroundingContext, error) {
	md, err := s.host.FetchMetadata(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &models.GroundingContext{
		Kind:            models.GroundingMetadata,
		Text:            renderMetadata(ref, md),
		Name:            md.Name,
		Description:     md.Description,
		PrimaryLanguage: md.PrimaryLanguage,
		Topics:          md.Topics,
		Stars:           md.Stars,
		Forks:           md.Forks,
		Homepage:        md.Homepage,
		FetchedAt:       time.Now().UTC(),
	}, nil
}

// renderMetadata turns structured repository attributes into a short
// descriptive paragraph usable as grounding text.
func renderMetadata(ref githost.Reference, md *githost.Metadata) string {
	name := md.Name
	if name == "" {
		name = ref.String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s is a source-code repository", name)
	if md.PrimaryLanguage != "" {
		fmt.Fprintf(&sb, " written primarily in %s", md.PrimaryLanguage)
	}
	sb.WriteString(".")
	if md.Description != "" {
		fmt.Fprintf(&sb, " %s.", strings.TrimSuffix(md.Description, "."))
	}
	if len(md.Topics) > 0 {
		fmt.Fprintf(&sb, " Topics: %s.", strings.Join(md.Topics, ", "))
	}
	fmt.Fprintf(&sb, " It has %d stars and %d forks.", md.Stars, md.Forks)
	if md.Homepage != "" {
		fmt.Fprintf(&sb, " Homepage: %s.", md.Homepage)
	}

	return utils.TruncateText(sb.String(), models.MaxGroundingChars)
}
