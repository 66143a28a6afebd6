package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"studypack-backend/internal/database"
	"studypack-backend/internal/models"
)

const studyPackColumns = `id, user_id, title, original_file_name, summary, difficulty, summary_length,
	flashcard_count, quiz_count, topics, created_at`

type StudyPackRepo struct {
	db database.DB
}

func NewStudyPackRepo(db database.DB) *StudyPackRepo {
	return &StudyPackRepo{db: db}
}

func (r *StudyPackRepo) q(ctx context.Context) database.Querier {
	return database.QuerierFromCtx(ctx, r.db)
}

func (r *StudyPackRepo) CreatePack(ctx context.Context, p *models.StudyPack) error {
	p.ID = uuid.New()
	if p.Topics == nil {
		p.Topics = []string{}
	}

	query := `INSERT INTO study_packs (id, user_id, title, original_file_name, summary, difficulty, summary_length,
		flashcard_count, quiz_count, topics)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING created_at`

	err := r.q(ctx).QueryRow(ctx, query,
		p.ID, p.UserID, p.Title, p.OriginalFileName, p.Summary, p.Difficulty, p.SummaryLength,
		p.FlashcardCount, p.QuizCount, p.Topics,
	).Scan(&p.CreatedAt)
	return mapError(err, "study pack", p.ID)
}

func (r *StudyPackRepo) GetPackByID(ctx context.Context, id uuid.UUID) (*models.StudyPack, error) {
	query := `SELECT ` + studyPackColumns + ` FROM study_packs WHERE id = $1`

	p, err := scanStudyPack(r.q(ctx).QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err, "study pack", id)
	}
	return p, nil
}

func (r *StudyPackRepo) ListPacksByUser(ctx context.Context, userID uuid.UUID) ([]*models.StudyPack, error) {
	query := `SELECT ` + studyPackColumns + ` FROM study_packs WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.q(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err, "user", userID)
	}
	defer rows.Close()

	packs := []*models.StudyPack{}
	for rows.Next() {
		p, err := scanStudyPack(rows)
		if err != nil {
			return nil, mapError(err, "user", userID)
		}
		packs = append(packs, p)
	}
	return packs, mapError(rows.Err(), "user", userID)
}

// DeletePack removes the pack; flashcards, quizzes, progress and attempts cascade.
func (r *StudyPackRepo) DeletePack(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q(ctx).Exec(ctx, "DELETE FROM study_packs WHERE id = $1", id)
	if err != nil {
		return mapError(err, "study pack", id)
	}
	if tag.RowsAffected() == 0 {
		return mapError(pgx.ErrNoRows, "study pack", id)
	}
	return nil
}

func (r *StudyPackRepo) StatsForUser(ctx context.Context, userID uuid.UUID) (*models.UserStats, error) {
	query := `SELECT
		(SELECT COUNT(*) FROM study_packs WHERE user_id = $1),
		(SELECT COUNT(*) FROM flashcards f JOIN study_packs p ON p.id = f.study_pack_id WHERE p.user_id = $1),
		(SELECT COUNT(*) FROM quizzes q JOIN study_packs p ON p.id = q.study_pack_id WHERE p.user_id = $1),
		(SELECT COUNT(*) FROM flashcard_progress WHERE user_id = $1 AND mastered),
		(SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1),
		(SELECT COALESCE(ROUND(AVG(score)), 0)::int FROM quiz_attempts WHERE user_id = $1)`

	s := &models.UserStats{}
	err := r.q(ctx).QueryRow(ctx, query, userID).Scan(
		&s.TotalPacks, &s.TotalFlashcards, &s.TotalQuizzes,
		&s.MasteredFlashcards, &s.QuizAttempts, &s.AverageQuizScore,
	)
	if err != nil {
		return nil, mapError(err, "user", userID)
	}
	return s, nil
}

func scanStudyPack(row pgx.Row) (*models.StudyPack, error) {
	p := &models.StudyPack{}
	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.OriginalFileName, &p.Summary, &p.Difficulty, &p.SummaryLength,
		&p.FlashcardCount, &p.QuizCount, &p.Topics, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if p.Topics == nil {
		p.Topics = []string{}
	}
	return p, nil
}
