package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/repository"
)

// SubmissionService records the public forms. Each submission is one row
// written in one statement, followed by best-effort notifications.
type SubmissionService struct {
	accountRepository     repository.AccountRepository
	inquiryRepository     repository.InquiryRepository
	contactRepository     repository.ContactRepository
	applicationRepository repository.ApplicationRepository
	notificationService   *NotificationService
}

func NewSubmissionService(
	accountRepository repository.AccountRepository,
	inquiryRepository repository.InquiryRepository,
	contactRepository repository.ContactRepository,
	applicationRepository repository.ApplicationRepository,
	notificationService *NotificationService,
) *SubmissionService {
	return &SubmissionService{
		accountRepository:     accountRepository,
		inquiryRepository:     inquiryRepository,
		contactRepository:     contactRepository,
		applicationRepository: applicationRepository,
		notificationService:   notificationService,
	}
}

// SubmitInquiry records an enquiry for a tutor. Unknown or non-tutor ids
// return ErrNotTutor and store nothing.
func (s *SubmissionService) SubmitInquiry(tutorID string, in *model.Inquiry) (*model.Account, error) {
	tutor, err := s.accountRepository.TutorByID(tutorID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotTutor
		}
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}

	in.TutorID = tutor.ID
	err = s.inquiryRepository.Create(in)
	if err != nil {
		return nil, fmt.Errorf("failed to save inquiry: %w", err)
	}

	slog.Info("inquiry received", "inquiry_id", in.ID, "tutor_id", tutor.ID)
	s.notificationService.InquiryReceived(tutor, in)
	return tutor, nil
}

func (s *SubmissionService) SubmitContact(c *model.Contact) error {
	err := s.contactRepository.Create(c)
	if err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}

	slog.Info("contact received", "contact_id", c.ID)
	s.notificationService.ContactReceived(c)
	return nil
}

func (s *SubmissionService) SubmitApplication(a *model.Application) error {
	err := s.applicationRepository.Create(a)
	if err != nil {
		return fmt.Errorf("failed to save application: %w", err)
	}

	slog.Info("application received", "application_id", a.ID)
	s.notificationService.ApplicationReceived(a)
	return nil
}
