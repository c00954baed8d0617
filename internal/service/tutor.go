package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/ataredge/tutorhub/internal/repository"
)

var ErrNotTutor = errors.New("tutor not found")

type TutorService struct {
	accountRepository repository.AccountRepository
	photoService      *PhotoService
}

func NewTutorService(accountRepository repository.AccountRepository, photoService *PhotoService) *TutorService {
	return &TutorService{
		accountRepository: accountRepository,
		photoService:      photoService,
	}
}

// Tutors lists tutors whose subject list contains subject; an empty subject lists all.
func (s *TutorService) Tutors(subject string) ([]*model.Tutor, error) {
	accounts, err := s.accountRepository.Tutors(strings.TrimSpace(subject))
	if err != nil {
		return nil, fmt.Errorf("failed to list tutors: %w", err)
	}

	tutors := make([]*model.Tutor, 0, len(accounts))
	for _, account := range accounts {
		tutors = append(tutors, s.present(account))
	}
	return tutors, nil
}

func (s *TutorService) Tutor(id string) (*model.Tutor, error) {
	account, err := s.accountRepository.TutorByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNotTutor
		}
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}
	return s.present(account), nil
}

func (s *TutorService) present(account *model.Account) *model.Tutor {
	account.PasswordHash = nil
	tutor := &model.Tutor{
		Account:     account,
		SubjectList: ParseSubjects(model.Str(account.Subjects)),
	}
	if photo := model.Str(account.Photo); photo != "" {
		tutor.PhotoURL = s.photoService.URL(photo)
	}
	return tutor
}

// BecomeTutor flags the account as a tutor with the given bio.
func (s *TutorService) BecomeTutor(accountID, bio string) error {
	err := s.accountRepository.PromoteToTutor(accountID, strings.TrimSpace(bio))
	if err != nil {
		return fmt.Errorf("failed to promote account: %w", err)
	}
	slog.Info("account joined as tutor", "account_id", accountID)
	return nil
}

// SetPhoto stores the uploaded photo and points the account at it.
func (s *TutorService) SetPhoto(ctx context.Context, accountID string, header *multipart.FileHeader) error {
	previous := ""
	if account, err := s.accountRepository.ByID(accountID); err == nil {
		previous = model.Str(account.Photo)
	}

	path, err := s.photoService.Save(ctx, accountID, header)
	if err != nil {
		return err
	}

	err = s.accountRepository.UpdatePhoto(accountID, path)
	if err != nil {
		s.photoService.Remove(ctx, path)
		return fmt.Errorf("failed to update photo: %w", err)
	}

	if previous != "" && previous != path {
		s.photoService.Remove(ctx, previous)
	}
	return nil
}

// SampleTutor is the profile seeded into an empty database.
func SampleTutor() *model.Account {
	return &model.Account{
		Name:  "Hariharan Manikandan",
		Email: model.Ptr("hariharan@ataredgeacademy.com.au"),
		TutorProfile: model.TutorProfile{
			Bio:          model.Ptr("First-year Medicine student at Monash University with 2 years tutoring experience. Available online only."),
			ATAR:         model.Ptr("99.45"),
			Degree:       model.Ptr("Bachelor of Medical Science / Doctor of Medicine (Monash University)"),
			Experience:   model.Ptr("2 years"),
			Availability: model.Ptr("Online only"),
			PriceY9:      model.Ptr(40),
			PriceY10to12: model.Ptr(50),
			Subjects:     model.Ptr("Biology:100;Physics:99;Chemistry:98;Methods:96"),
		},
	}
}

// EnsureSampleTutor seeds the sample tutor when no tutor exists yet.
func (s *TutorService) EnsureSampleTutor() error {
	count, err := s.accountRepository.CountTutors()
	if err != nil {
		return fmt.Errorf("failed to count tutors: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = s.SeedTutor(SampleTutor())
	return err
}

// SeedTutor inserts a tutor profile unless an account with its email exists.
func (s *TutorService) SeedTutor(account *model.Account) (bool, error) {
	created, err := s.accountRepository.CreateTutorProfile(account)
	if err != nil {
		return false, fmt.Errorf("failed to seed tutor: %w", err)
	}
	if created {
		slog.Info("seeded tutor", "name", account.Name, "account_id", account.ID)
	} else {
		slog.Info("tutor already present, skipping seed", "name", account.Name)
	}
	return created, nil
}

// ParseSubjects splits "Biology:100;Physics:99" into subject/score pairs.
// Blank entries are skipped and a "/100" suffix on the score is dropped.
func ParseSubjects(raw string) []model.SubjectScore {
	var subjects []model.SubjectScore
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		name, score, _ := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		score = strings.TrimSpace(score)
		score = strings.TrimSpace(strings.TrimSuffix(score, "/100"))
		subjects = append(subjects, model.SubjectScore{Subject: name, Score: score})
	}
	return subjects
}
