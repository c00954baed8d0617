package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/repository"
)

var (
	ErrUnknownKind        = errors.New("unknown submission kind")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// TriageService backs the admin dashboard.
type TriageService struct {
	inquiryRepository     repository.InquiryRepository
	contactRepository     repository.ContactRepository
	applicationRepository repository.ApplicationRepository
}

func NewTriageService(
	inquiryRepository repository.InquiryRepository,
	contactRepository repository.ContactRepository,
	applicationRepository repository.ApplicationRepository,
) *TriageService {
	return &TriageService{
		inquiryRepository:     inquiryRepository,
		contactRepository:     contactRepository,
		applicationRepository: applicationRepository,
	}
}

// Counts returns the number of not-closed rows per table.
func (s *TriageService) Counts() (*model.OpenCounts, error) {
	inquiries, err := s.inquiryRepository.CountOpen()
	if err != nil {
		return nil, fmt.Errorf("failed to count inquiries: %w", err)
	}
	applications, err := s.applicationRepository.CountOpen()
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	contacts, err := s.contactRepository.CountOpen()
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	return &model.OpenCounts{
		Inquiries:    inquiries,
		Applications: applications,
		Contacts:     contacts,
	}, nil
}

func (s *TriageService) Inquiries() (*model.Partition[model.Inquiry], error) {
	open, err := s.inquiryRepository.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to list open inquiries: %w", err)
	}
	closed, err := s.inquiryRepository.Closed()
	if err != nil {
		return nil, fmt.Errorf("failed to list closed inquiries: %w", err)
	}
	return &model.Partition[model.Inquiry]{Open: open, Closed: closed}, nil
}

func (s *TriageService) Applications() (*model.Partition[model.Application], error) {
	open, err := s.applicationRepository.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to list open applications: %w", err)
	}
	closed, err := s.applicationRepository.Closed()
	if err != nil {
		return nil, fmt.Errorf("failed to list closed applications: %w", err)
	}
	return &model.Partition[model.Application]{Open: open, Closed: closed}, nil
}

func (s *TriageService) Contacts() (*model.Partition[model.Contact], error) {
	open, err := s.contactRepository.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to list open contacts: %w", err)
	}
	closed, err := s.contactRepository.Closed()
	if err != nil {
		return nil, fmt.Errorf("failed to list closed contacts: %w", err)
	}
	return &model.Partition[model.Contact]{Open: open, Closed: closed}, nil
}

// SetStatus moves a submission to the state named by raw. An empty raw
// value marks the row as read (in progress).
func (s *TriageService) SetStatus(kind model.Kind, id, raw string) (model.Status, error) {
	status := model.ParseStatus(raw)

	var err error
	switch kind {
	case model.KindInquiry:
		err = s.inquiryRepository.SetStatus(id, status)
	case model.KindApplication:
		err = s.applicationRepository.SetStatus(id, status)
	case model.KindContact:
		err = s.contactRepository.SetStatus(id, status)
	default:
		return "", ErrUnknownKind
	}
	if errors.Is(err, repository.ErrSubmissionNotFound) {
		return "", ErrSubmissionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to set %s status: %w", kind, err)
	}

	slog.Info("submission status changed", "kind", kind, "id", id, "status", status)
	return status, nil
}

// DeleteApplication removes an application permanently. Repeats are no-ops.
func (s *TriageService) DeleteApplication(id string) error {
	err := s.applicationRepository.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	slog.Info("application deleted", "id", id)
	return nil
}
