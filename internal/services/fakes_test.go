package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"studypack-backend/internal/models"
	"studypack-backend/internal/repository"
)

// memStore backs every repository fake so transactions can be checked in one place.
type memStore struct {
	mu         sync.Mutex
	packs      map[uuid.UUID]*models.StudyPack
	flashcards map[uuid.UUID][]models.Flashcard
	quizzes    map[uuid.UUID][]models.Quiz
	mastery    map[uuid.UUID]map[uuid.UUID]bool // user -> card -> mastered
	attempts   []models.QuizAttempt

	failQuizzes error
}

func newMemStore() *memStore {
	return &memStore{
		packs:      map[uuid.UUID]*models.StudyPack{},
		flashcards: map[uuid.UUID][]models.Flashcard{},
		quizzes:    map[uuid.UUID][]models.Quiz{},
		mastery:    map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (m *memStore) CreatePack(_ context.Context, p *models.StudyPack) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	m.packs[p.ID] = &cp
	return nil
}

func (m *memStore) GetPackByID(_ context.Context, id uuid.UUID) (*models.StudyPack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.packs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) ListPacksByUser(_ context.Context, userID uuid.UUID) ([]*models.StudyPack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.StudyPack{}
	for _, p := range m.packs {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) DeletePack(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.packs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.packs, id)
	delete(m.flashcards, id)
	delete(m.quizzes, id)
	return nil
}

func (m *memStore) StatsForUser(_ context.Context, userID uuid.UUID) (*models.UserStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.UserStats{}
	for id, p := range m.packs {
		if p.UserID == userID {
			s.TotalPacks++
			s.TotalFlashcards += len(m.flashcards[id])
			s.TotalQuizzes += len(m.quizzes[id])
		}
	}
	return s, nil
}

type memFlashcards struct{ *memStore }

func (m memFlashcards) AttachFlashcards(_ context.Context, packID uuid.UUID, cards []models.Flashcard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range cards {
		cards[i].ID = uuid.New()
		cards[i].StudyPackID = packID
		cards[i].Position = i
	}
	m.flashcards[packID] = append([]models.Flashcard(nil), cards...)
	return nil
}

func (m memFlashcards) ListByPack(_ context.Context, packID uuid.UUID) ([]models.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Flashcard{}, m.flashcards[packID]...), nil
}

func (m memFlashcards) GetByID(_ context.Context, id uuid.UUID) (*models.Flashcard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cards := range m.flashcards {
		for _, c := range cards {
			if c.ID == id {
				return &c, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

type memQuizzes struct{ *memStore }

func (m memQuizzes) AttachQuizzes(_ context.Context, packID uuid.UUID, quizzes []models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failQuizzes != nil {
		return m.failQuizzes
	}
	for i := range quizzes {
		quizzes[i].ID = uuid.New()
		quizzes[i].StudyPackID = packID
		quizzes[i].Position = i
	}
	m.quizzes[packID] = append([]models.Quiz(nil), quizzes...)
	return nil
}

func (m memQuizzes) ListByPack(_ context.Context, packID uuid.UUID) ([]models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Quiz{}, m.quizzes[packID]...), nil
}

type memProgress struct{ *memStore }

func (m memProgress) UpsertMastery(_ context.Context, userID, flashcardID uuid.UUID, mastered bool) (*models.FlashcardProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mastery[userID] == nil {
		m.mastery[userID] = map[uuid.UUID]bool{}
	}
	m.mastery[userID][flashcardID] = mastered
	return &models.FlashcardProgress{ID: uuid.New(), UserID: userID, FlashcardID: flashcardID, Mastered: mastered, LastReviewed: time.Now()}, nil
}

func (m memProgress) MasteryForPack(_ context.Context, userID, packID uuid.UUID) (map[uuid.UUID]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[uuid.UUID]bool{}
	for _, c := range m.flashcards[packID] {
		if v, ok := m.mastery[userID][c.ID]; ok {
			out[c.ID] = v
		}
	}
	return out, nil
}

func (m memProgress) CreateAttempt(_ context.Context, a *models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	a.AttemptedAt = time.Now()
	m.attempts = append(m.attempts, *a)
	return nil
}

func (m memProgress) AttemptsForPack(_ context.Context, userID, packID uuid.UUID) ([]models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.QuizAttempt{}
	for i := len(m.attempts) - 1; i >= 0; i-- {
		a := m.attempts[i]
		if a.UserID == userID && a.StudyPackID == packID {
			out = append(out, a)
		}
	}
	return out, nil
}

// memTx snapshots the store and restores it when fn fails.
type memTx struct{ *memStore }

func (t memTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	packs := make(map[uuid.UUID]*models.StudyPack, len(t.packs))
	for k, v := range t.packs {
		packs[k] = v
	}
	cards := make(map[uuid.UUID][]models.Flashcard, len(t.flashcards))
	for k, v := range t.flashcards {
		cards[k] = v
	}
	t.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.mu.Lock()
		t.packs = packs
		t.flashcards = cards
		t.mu.Unlock()
		return err
	}
	return nil
}

type fakeGenerator struct {
	mu        sync.Mutex
	jsonCalls int
	textCalls int
	prompts   []string

	jsonOut string
	textOut string
	err     error
}

func (g *fakeGenerator) GenerateJSON(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.jsonCalls++
	g.prompts = append(g.prompts, prompt)
	return g.jsonOut, g.err
}

func (g *fakeGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.textCalls++
	g.prompts = append(g.prompts, prompt)
	return g.textOut, g.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.WSMessage
}

func (n *recordingNotifier) Publish(_ context.Context, _ uuid.UUID, msg models.WSMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, msg)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

func newTestStudyPackService(store *memStore, gen Generator, notifier Notifier) *StudyPackService {
	return NewStudyPackService(store, memFlashcards{store}, memQuizzes{store}, memProgress{store}, memTx{store}, gen, notifier)
}
