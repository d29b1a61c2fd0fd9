package chatbot

import (
	"context"
	"fmt"

	"github.com/teclegacy/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/teclegacy/marketplace-backend/pkg/errors"
	"github.com/teclegacy/marketplace-backend/pkg/metrics"
)

// Service resolves queries and records the audit trail. Only successful
// resolutions are persisted; a failed one leaves no trace beyond the error.
type Service interface {
	Handle(ctx context.Context, query string) (string, error)
}

type service struct {
	resolver *Resolver
	repo     Repository
}

// NewService builds the chatbot service.
func NewService(resolver *Resolver, repo Repository) (Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver required")
	}
	if repo == nil {
		return nil, fmt.Errorf("chatbot repository required")
	}
	return &service{resolver: resolver, repo: repo}, nil
}

func (s *service) Handle(ctx context.Context, query string) (string, error) {
	response, outcome, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		metrics.ChatbotQueriesTotal.WithLabelValues("error").Inc()
		if typed := pkgerrors.As(err); typed != nil {
			return "", typed
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve chatbot query")
	}

	record := &models.ChatbotQuery{Query: query, Response: response}
	if err := s.repo.Create(ctx, record); err != nil {
		metrics.ChatbotQueriesTotal.WithLabelValues("error").Inc()
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist chatbot query")
	}

	metrics.ChatbotQueriesTotal.WithLabelValues(string(outcome)).Inc()
	return response, nil
}
