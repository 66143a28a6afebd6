package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"studypack-backend/internal/database"
	"studypack-backend/internal/models"
)

type ProgressRepo struct {
	db database.DB
}

func NewProgressRepo(db database.DB) *ProgressRepo {
	return &ProgressRepo{db: db}
}

func (r *ProgressRepo) q(ctx context.Context) database.Querier {
	return database.QuerierFromCtx(ctx, r.db)
}

// UpsertMastery writes the (user, flashcard) mastery flag in a single
// conditional statement and refreshes last_reviewed.
func (r *ProgressRepo) UpsertMastery(ctx context.Context, userID, flashcardID uuid.UUID, mastered bool) (*models.FlashcardProgress, error) {
	query := psql.Insert("flashcard_progress").
		Columns("id", "user_id", "flashcard_id", "mastered", "last_reviewed").
		Values(uuid.New(), userID, flashcardID, mastered, squirrel.Expr("NOW()")).
		Suffix(`ON CONFLICT (user_id, flashcard_id)
			DO UPDATE SET mastered = EXCLUDED.mastered, last_reviewed = NOW()
			RETURNING id, mastered, last_reviewed`)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	p := &models.FlashcardProgress{UserID: userID, FlashcardID: flashcardID}
	if err := r.q(ctx).QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Mastered, &p.LastReviewed); err != nil {
		return nil, mapError(err, "flashcard", flashcardID)
	}
	return p, nil
}

// MasteryForPack returns the user's mastery flags for cards of packID, keyed by flashcard id.
// Cards without a progress row are absent from the map.
func (r *ProgressRepo) MasteryForPack(ctx context.Context, userID, packID uuid.UUID) (map[uuid.UUID]bool, error) {
	query := `SELECT fp.flashcard_id, fp.mastered
		FROM flashcard_progress fp
		JOIN flashcards f ON f.id = fp.flashcard_id
		WHERE fp.user_id = $1 AND f.study_pack_id = $2`

	rows, err := r.q(ctx).Query(ctx, query, userID, packID)
	if err != nil {
		return nil, mapError(err, "study pack", packID)
	}
	defer rows.Close()

	mastery := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		var mastered bool
		if err := rows.Scan(&id, &mastered); err != nil {
			return nil, mapError(err, "study pack", packID)
		}
		mastery[id] = mastered
	}
	return mastery, mapError(rows.Err(), "study pack", packID)
}

// CreateAttempt appends a quiz attempt. Attempts are never updated.
func (r *ProgressRepo) CreateAttempt(ctx context.Context, a *models.QuizAttempt) error {
	a.ID = uuid.New()

	query := `INSERT INTO quiz_attempts (id, user_id, study_pack_id, score, total_questions, correct_answers)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING attempted_at`

	err := r.q(ctx).QueryRow(ctx, query,
		a.ID, a.UserID, a.StudyPackID, a.Score, a.TotalQuestions, a.CorrectAnswers,
	).Scan(&a.AttemptedAt)
	return mapError(err, "study pack", a.StudyPackID)
}

// AttemptsForPack returns the user's attempts on packID, newest first.
func (r *ProgressRepo) AttemptsForPack(ctx context.Context, userID, packID uuid.UUID) ([]models.QuizAttempt, error) {
	query := `SELECT id, user_id, study_pack_id, score, total_questions, correct_answers, attempted_at
		FROM quiz_attempts WHERE user_id = $1 AND study_pack_id = $2
		ORDER BY attempted_at DESC, seq DESC`

	rows, err := r.q(ctx).Query(ctx, query, userID, packID)
	if err != nil {
		return nil, mapError(err, "study pack", packID)
	}
	defer rows.Close()

	attempts := []models.QuizAttempt{}
	for rows.Next() {
		a := models.QuizAttempt{}
		if err := rows.Scan(&a.ID, &a.UserID, &a.StudyPackID, &a.Score, &a.TotalQuestions, &a.CorrectAnswers, &a.AttemptedAt); err != nil {
			return nil, mapError(err, "study pack", packID)
		}
		attempts = append(attempts, a)
	}
	return attempts, mapError(rows.Err(), "study pack", packID)
}
