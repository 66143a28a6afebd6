package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"studypack-backend/internal/models"
	"studypack-backend/internal/repository"
)

const (
	// MinMaterialChars is the shortest trimmed study material worth sending to a provider.
	MinMaterialChars = 50

	DefaultFlashcardCount = 10
	DefaultQuizCount      = 5
	MaxFlashcardCount     = 50
	MaxQuizCount          = 30
)

type PackRepository interface {
	CreatePack(ctx context.Context, p *models.StudyPack) error
	GetPackByID(ctx context.Context, id uuid.UUID) (*models.StudyPack, error)
	ListPacksByUser(ctx context.Context, userID uuid.UUID) ([]*models.StudyPack, error)
	DeletePack(ctx context.Context, id uuid.UUID) error
	StatsForUser(ctx context.Context, userID uuid.UUID) (*models.UserStats, error)
}

type FlashcardRepository interface {
	AttachFlashcards(ctx context.Context, packID uuid.UUID, cards []models.Flashcard) error
	ListByPack(ctx context.Context, packID uuid.UUID) ([]models.Flashcard, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error)
}

type QuizRepository interface {
	AttachQuizzes(ctx context.Context, packID uuid.UUID, quizzes []models.Quiz) error
	ListByPack(ctx context.Context, packID uuid.UUID) ([]models.Quiz, error)
}

type ProgressRepository interface {
	UpsertMastery(ctx context.Context, userID, flashcardID uuid.UUID, mastered bool) (*models.FlashcardProgress, error)
	MasteryForPack(ctx context.Context, userID, packID uuid.UUID) (map[uuid.UUID]bool, error)
	CreateAttempt(ctx context.Context, a *models.QuizAttempt) error
	AttemptsForPack(ctx context.Context, userID, packID uuid.UUID) ([]models.QuizAttempt, error)
}

// TxRunner runs fn inside one database transaction (database.TxManager).
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// GenerateOptions are the user-tunable generation parameters.
type GenerateOptions struct {
	Difficulty     string
	SummaryLength  string
	FlashcardCount int
	QuizCount      int
}

// GenerateInput is one generation request. File takes precedence over TextInput.
type GenerateInput struct {
	File        []byte
	ContentType string
	FileName    string
	TextInput   string
	Options     GenerateOptions
}

// NormalizeOptions fills defaults, canonicalises enum casing and bounds the counts.
// A zero count means "use the default".
func NormalizeOptions(o GenerateOptions) (GenerateOptions, error) {
	fields := map[string]string{}

	difficulty, ok := canonical(o.Difficulty, models.DifficultyMedium,
		models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard)
	if !ok {
		fields["difficulty"] = "Must be one of Easy, Medium, Hard"
	}
	length, ok := canonical(o.SummaryLength, models.LengthMedium,
		models.LengthShort, models.LengthMedium, models.LengthLong)
	if !ok {
		fields["summaryLength"] = "Must be one of Short, Medium, Long"
	}

	flashcards := o.FlashcardCount
	if flashcards == 0 {
		flashcards = DefaultFlashcardCount
	}
	if flashcards < 1 || flashcards > MaxFlashcardCount {
		fields["flashcardCount"] = fmt.Sprintf("Must be between 1 and %d", MaxFlashcardCount)
	}

	quizzes := o.QuizCount
	if quizzes == 0 {
		quizzes = DefaultQuizCount
	}
	if quizzes < 1 || quizzes > MaxQuizCount {
		fields["quizCount"] = fmt.Sprintf("Must be between 1 and %d", MaxQuizCount)
	}

	if len(fields) > 0 {
		return GenerateOptions{}, &ValidationError{Fields: fields}
	}
	return GenerateOptions{
		Difficulty:     difficulty,
		SummaryLength:  length,
		FlashcardCount: flashcards,
		QuizCount:      quizzes,
	}, nil
}

func canonical(value, fallback string, allowed ...string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, true
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return a, true
		}
	}
	return "", false
}

// PackTitle derives a pack title from the uploaded file name.
func PackTitle(fileName string) string {
	title := strings.TrimSpace(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	if title == "" {
		return fileName
	}
	return title
}

type StudyPackService struct {
	packs      PackRepository
	flashcards FlashcardRepository
	quizzes    QuizRepository
	progress   ProgressRepository
	tx         TxRunner
	generator  Generator
	notifier   Notifier
}

func NewStudyPackService(
	packs PackRepository,
	flashcards FlashcardRepository,
	quizzes QuizRepository,
	progress ProgressRepository,
	tx TxRunner,
	generator Generator,
	notifier Notifier,
) *StudyPackService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &StudyPackService{
		packs:      packs,
		flashcards: flashcards,
		quizzes:    quizzes,
		progress:   progress,
		tx:         tx,
		generator:  generator,
		notifier:   notifier,
	}
}

// Generate runs extraction, prompting, validation and persistence for one request.
// Nothing is written unless every stage succeeds.
func (s *StudyPackService) Generate(ctx context.Context, userID uuid.UUID, in GenerateInput) (*models.StudyPackWithContent, error) {
	opts, err := NormalizeOptions(in.Options)
	if err != nil {
		return nil, err
	}

	fileName := strings.TrimSpace(in.FileName)
	if len(in.File) == 0 || fileName == "" {
		fileName = models.TextInputFileName
	}

	pack, err := s.generate(ctx, userID, in, opts, fileName)
	if err != nil {
		s.notifier.Publish(ctx, userID, models.WSMessage{
			Type:    models.EventError,
			Payload: models.ErrorEvent{ErrorCode: ErrorCode(err), ErrorMessage: ClientMessage(err, "Failed to generate study pack")},
		})
		return nil, err
	}

	s.notifier.Publish(ctx, userID, models.WSMessage{
		Type:    models.EventCompleted,
		Payload: models.CompletedEvent{StudyPackID: pack.ID, Title: pack.Title},
	})
	return pack, nil
}

func (s *StudyPackService) generate(ctx context.Context, userID uuid.UUID, in GenerateInput, opts GenerateOptions, fileName string) (*models.StudyPackWithContent, error) {
	s.step(ctx, userID, 1, "Extracting text", fileName)
	text, err := materialText(in)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < MinMaterialChars {
		return nil, newError(ErrContentTooShort, "Content is too short to generate study materials.", nil)
	}

	s.step(ctx, userID, 2, "Generating content", fileName)
	prompt := BuildGenerationPrompt(text, opts.Difficulty, opts.SummaryLength, opts.FlashcardCount, opts.QuizCount)
	raw, err := s.generator.GenerateJSON(ctx, prompt)
	if err != nil {
		if !errors.Is(err, ErrProvider) {
			err = newError(ErrProvider, "AI generation failed", err)
		}
		return nil, err
	}

	s.step(ctx, userID, 3, "Validating", fileName)
	content, err := ValidateGenerated(raw)
	if err != nil {
		return nil, err
	}

	s.step(ctx, userID, 4, "Saving", fileName)
	summary := content.Summary
	pack := &models.StudyPack{
		UserID:           userID,
		Title:            PackTitle(fileName),
		OriginalFileName: fileName,
		Summary:          &summary,
		Difficulty:       opts.Difficulty,
		SummaryLength:    opts.SummaryLength,
		FlashcardCount:   opts.FlashcardCount,
		QuizCount:        opts.QuizCount,
		Topics:           content.Topics,
	}

	cards := make([]models.Flashcard, len(content.Flashcards))
	for i, fc := range content.Flashcards {
		cards[i] = models.Flashcard{Question: fc.Question, Answer: fc.Answer}
	}
	quizzes := make([]models.Quiz, len(content.Quizzes))
	for i, q := range content.Quizzes {
		quizzes[i] = models.Quiz{Question: q.Question, Options: q.Options, CorrectAnswer: q.CorrectAnswer}
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.packs.CreatePack(ctx, pack); err != nil {
			return err
		}
		if err := s.flashcards.AttachFlashcards(ctx, pack.ID, cards); err != nil {
			return err
		}
		return s.quizzes.AttachQuizzes(ctx, pack.ID, quizzes)
	})
	if err != nil {
		return nil, newError(ErrStorage, "Failed to save study pack", err)
	}

	return &models.StudyPackWithContent{StudyPack: pack, Flashcards: cards, Quizzes: quizzes}, nil
}

func materialText(in GenerateInput) (string, error) {
	if len(in.File) > 0 {
		return ExtractText(in.File, in.ContentType, in.FileName)
	}
	if strings.TrimSpace(in.TextInput) != "" {
		return in.TextInput, nil
	}
	return "", newError(ErrNoContent, "No content provided", nil)
}

func (s *StudyPackService) step(ctx context.Context, userID uuid.UUID, step int, name, fileName string) {
	s.notifier.Publish(ctx, userID, models.WSMessage{
		Type:    models.EventStatusUpdate,
		Payload: models.StatusUpdate{Step: step, StepName: name, FileName: fileName},
	})
}

// ListPacks returns the caller's packs, newest first.
func (s *StudyPackService) ListPacks(ctx context.Context, userID uuid.UUID) ([]*models.StudyPack, error) {
	packs, err := s.packs.ListPacksByUser(ctx, userID)
	if err != nil {
		return nil, newError(ErrStorage, "Failed to list study packs", err)
	}
	return packs, nil
}

// GetPack loads a pack with its flashcards and quizzes. With a non-nil requester
// ownership is enforced and the requester's progress is attached.
func (s *StudyPackService) GetPack(ctx context.Context, id, requester uuid.UUID) (*models.StudyPackWithContent, error) {
	pack, err := s.ownedPack(ctx, id, requester)
	if err != nil {
		return nil, err
	}

	var (
		cards    []models.Flashcard
		quizzes  []models.Quiz
		mastery  map[uuid.UUID]bool
		attempts []models.QuizAttempt
	)

	// Content and the requester's progress load in parallel
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if cards, err = s.flashcards.ListByPack(gctx, id); err != nil {
			return newError(ErrStorage, "Failed to load flashcards", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if quizzes, err = s.quizzes.ListByPack(gctx, id); err != nil {
			return newError(ErrStorage, "Failed to load quizzes", err)
		}
		return nil
	})
	if requester != uuid.Nil {
		g.Go(func() error {
			var err error
			if mastery, err = s.progress.MasteryForPack(gctx, requester, id); err != nil {
				return newError(ErrStorage, "Failed to load progress", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if attempts, err = s.progress.AttemptsForPack(gctx, requester, id); err != nil {
				return newError(ErrStorage, "Failed to load quiz history", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &models.StudyPackWithContent{StudyPack: pack, Flashcards: cards, Quizzes: quizzes}
	if requester == uuid.Nil {
		return result, nil
	}

	for i := range result.Flashcards {
		if m, ok := mastery[result.Flashcards[i].ID]; ok {
			result.Flashcards[i].Mastered = &m
		}
	}
	result.Progress = ComputeProgress(result.Flashcards, attempts)
	return result, nil
}

// DeletePack removes an owned pack and everything attached to it.
func (s *StudyPackService) DeletePack(ctx context.Context, id, requester uuid.UUID) error {
	if _, err := s.ownedPack(ctx, id, requester); err != nil {
		return err
	}
	if err := s.packs.DeletePack(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Study pack not found", err)
		}
		return newError(ErrStorage, "Failed to delete study pack", err)
	}
	return nil
}

func (s *StudyPackService) UserStats(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	stats, err := s.packs.StatsForUser(ctx, userID)
	if err != nil {
		return nil, newError(ErrStorage, "Failed to load stats", err)
	}
	return stats, nil
}

// ownedPack loads a pack header; uuid.Nil skips the ownership check.
func (s *StudyPackService) ownedPack(ctx context.Context, id, requester uuid.UUID) (*models.StudyPack, error) {
	pack, err := s.packs.GetPackByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Study pack not found", err)
		}
		return nil, newError(ErrStorage, "Failed to load study pack", err)
	}
	if requester != uuid.Nil && pack.UserID != requester {
		return nil, newError(ErrUnauthorized, "Unauthorized", nil)
	}
	return pack, nil
}

// ComputeProgress aggregates mastery and quiz history. attempts must be newest first.
func ComputeProgress(cards []models.Flashcard, attempts []models.QuizAttempt) *models.PackProgress {
	p := &models.PackProgress{
		TotalFlashcards: len(cards),
		QuizHistory:     attempts,
	}
	if p.QuizHistory == nil {
		p.QuizHistory = []models.QuizAttempt{}
	}

	for _, c := range cards {
		if c.Mastered != nil && *c.Mastered {
			p.MasteredCount++
		}
	}

	if len(attempts) > 0 {
		total := 0
		for _, a := range attempts {
			total += a.Score
		}
		p.AverageQuizScore = int(math.Round(float64(total) / float64(len(attempts))))
		last := attempts[0]
		p.LastAttempt = &last
	}
	return p
}
