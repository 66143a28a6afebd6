package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"studypack-backend/internal/database"
	"studypack-backend/internal/models"
)

type QuizRepo struct {
	db database.DB
}

func NewQuizRepo(db database.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

func (r *QuizRepo) q(ctx context.Context) database.Querier {
	return database.QuerierFromCtx(ctx, r.db)
}

// AttachQuizzes bulk-inserts quizzes for packID; options are stored as jsonb.
// An empty slice is a no-op.
func (r *QuizRepo) AttachQuizzes(ctx context.Context, packID uuid.UUID, quizzes []models.Quiz) error {
	if len(quizzes) == 0 {
		return nil
	}

	insert := psql.Insert("quizzes").Columns("id", "study_pack_id", "question", "options", "correct_answer", "position")
	for i := range quizzes {
		optionsJSON, err := json.Marshal(quizzes[i].Options)
		if err != nil {
			return fmt.Errorf("encode quiz %d options: %w", i, err)
		}
		quizzes[i].ID = uuid.New()
		quizzes[i].StudyPackID = packID
		quizzes[i].Position = i
		insert = insert.Values(quizzes[i].ID, packID, quizzes[i].Question, optionsJSON, quizzes[i].CorrectAnswer, i)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	_, err = r.q(ctx).Exec(ctx, sql, args...)
	return mapError(err, "study pack", packID)
}

func (r *QuizRepo) ListByPack(ctx context.Context, packID uuid.UUID) ([]models.Quiz, error) {
	query := `SELECT id, study_pack_id, question, options, correct_answer, position
		FROM quizzes WHERE study_pack_id = $1 ORDER BY position ASC`

	rows, err := r.q(ctx).Query(ctx, query, packID)
	if err != nil {
		return nil, mapError(err, "study pack", packID)
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		q := models.Quiz{}
		var optionsJSON []byte
		if err := rows.Scan(&q.ID, &q.StudyPackID, &q.Question, &optionsJSON, &q.CorrectAnswer, &q.Position); err != nil {
			return nil, mapError(err, "study pack", packID)
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("decode quiz %s options: %w", q.ID, err)
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, mapError(rows.Err(), "study pack", packID)
}
