package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/internal/domain/repository"
	"flighttrack-service/pkg/logger"
)

// Service fetches flight-related emails for one account and persists
// them into the raw-email store. The core never talks to it directly.
type Service struct {
	gmailService *gmail.Service
	emailRepo    repository.EmailRepository
	account      string
	logger       logger.Logger
}

// NewService creates a Gmail mail source for one account.
func NewService(ctx context.Context, tokenSource oauth2.TokenSource, emailRepo repository.EmailRepository, account string, log logger.Logger) (*Service, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &Service{
		gmailService: service,
		emailRepo:    emailRepo,
		account:      account,
		logger:       log,
	}, nil
}

// buildQuery narrows the mailbox to likely flight mail inside the window.
// The subject/sender filter is deliberately loose; the format detector
// does the real classification.
func buildQuery(start, end time.Time) string {
	return fmt.Sprintf(
		`(from:(*airlines* OR *airasia* OR *vietjet* OR *booking* OR *travel*) OR `+
			`subject:("flight confirmation" OR itinerary OR "e-ticket" OR "boarding pass")) `+
			`after:%s before:%s`,
		start.Format("2006/01/02"), end.Format("2006/01/02"))
}

// FetchWindow lists and stores all matching messages in [start, end).
// Returns the number of newly stored emails.
func (s *Service) FetchWindow(ctx context.Context, start, end time.Time) (int, error) {
	query := buildQuery(start, end)
	s.logger.Info("Querying Gmail", "account", s.account, "query", query)

	var messageIDs []string
	pageToken := ""
	for {
		req := s.gmailService.Users.Messages.List("me").Q(query)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		resp, err := req.Do()
		if err != nil {
			return 0, fmt.Errorf("list messages: %w", err)
		}
		for _, msg := range resp.Messages {
			messageIDs = append(messageIDs, msg.Id)
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	if len(messageIDs) == 0 {
		s.logger.Info("No messages in window", "account", s.account)
		return 0, nil
	}

	existing, err := s.emailRepo.FindByEmailIDs(ctx, messageIDs)
	if err != nil {
		s.logger.Error("Failed to batch check existing emails", "error", err)
		existing = make(map[string]*entity.RawEmail)
	}

	newCount := 0
	for _, id := range messageIDs {
		if _, ok := existing[id]; ok {
			continue
		}

		fullMsg, err := s.gmailService.Users.Messages.Get("me", id).Do()
		if err != nil {
			s.logger.Error("Failed to get message", "emailID", id, "error", err)
			continue
		}

		email, err := s.convertToEmail(fullMsg)
		if err != nil {
			s.logger.Error("Failed to convert message", "emailID", id, "error", err)
			continue
		}

		if err := s.emailRepo.Save(ctx, email); err != nil {
			s.logger.Error("Failed to save email", "emailID", id, "error", err)
			continue
		}
		newCount++
	}

	s.logger.Info("Email fetch completed",
		"account", s.account,
		"totalFromGmail", len(messageIDs),
		"alreadyInStore", len(existing),
		"newEmails", newCount)

	return newCount, nil
}

// convertToEmail converts a Gmail message to the domain entity.
func (s *Service) convertToEmail(msg *gmail.Message) (*entity.RawEmail, error) {
	email := &entity.RawEmail{
		EmailID: msg.Id,
		Account: s.account,
	}

	for _, header := range msg.Payload.Headers {
		switch header.Name {
		case "From":
			email.From = header.Value
		case "To":
			email.To = header.Value
		case "Subject":
			email.Subject = header.Value
		}
	}

	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(msg.Payload.Body.Data)
		if err != nil {
			return nil, err
		}
		email.Body = string(data)
	}

	for _, part := range msg.Payload.Parts {
		if part.Body == nil || part.Body.Data == "" {
			continue
		}
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			continue
		}
		switch part.MimeType {
		case "text/plain":
			email.Body = string(data)
		case "text/html":
			email.HTMLBody = string(data)
		}
	}

	email.ReceivedAt = time.Unix(0, msg.InternalDate*int64(time.Millisecond))
	email.FetchedAt = time.Now().UTC()

	return email, nil
}
