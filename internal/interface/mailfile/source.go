package mailfile

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jhillyerd/enmime"

	"flighttrack-service/internal/domain/entity"
	"flighttrack-service/pkg/logger"
)

// Source loads raw emails from .eml files in a directory. It backs the
// sample-data mode: extraction runs against it exactly as it does
// against a live mailbox.
type Source struct {
	dir     string
	account string
	logger  logger.Logger
}

// NewSource creates a file-backed mail source.
func NewSource(dir, account string, log logger.Logger) *Source {
	return &Source{dir: dir, account: account, logger: log}
}

// Load reads every .eml file in the directory whose Date header falls in
// [start, end). Unreadable files are skipped and logged, never fatal.
func (s *Source) Load(start, end time.Time) ([]*entity.RawEmail, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read sample dir: %w", err)
	}

	var emails []*entity.RawEmail
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".eml") {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		email, err := s.readFile(path)
		if err != nil {
			s.logger.Warn("Skipping unreadable sample email", "file", entry.Name(), "error", err)
			continue
		}

		if !email.ReceivedAt.IsZero() {
			if email.ReceivedAt.Before(start) || !email.ReceivedAt.Before(end) {
				continue
			}
		}
		emails = append(emails, email)
	}

	sort.Slice(emails, func(i, j int) bool {
		return emails[i].ReceivedAt.Before(emails[j].ReceivedAt)
	})

	s.logger.Info("Loaded sample emails", "dir", s.dir, "count", len(emails))
	return emails, nil
}

func (s *Source) readFile(path string) (*entity.RawEmail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	env, err := enmime.ReadEnvelope(f)
	if err != nil {
		return nil, fmt.Errorf("parse MIME: %w", err)
	}

	email := &entity.RawEmail{
		EmailID:   env.GetHeader("Message-Id"),
		Account:   s.account,
		From:      env.GetHeader("From"),
		To:        env.GetHeader("To"),
		Subject:   env.GetHeader("Subject"),
		Body:      env.Text,
		HTMLBody:  env.HTML,
		FetchedAt: time.Now().UTC(),
	}
	if email.EmailID == "" {
		email.EmailID = filepath.Base(path)
	}

	if date := env.GetHeader("Date"); date != "" {
		if t, err := mail.ParseDate(date); err == nil {
			email.ReceivedAt = t
		}
	}

	return email, nil
}
