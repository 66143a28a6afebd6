package repository

import (
	"context"

	"github.com/google/uuid"

	"studypack-backend/internal/database"
	"studypack-backend/internal/models"
)

type FlashcardRepo struct {
	db database.DB
}

func NewFlashcardRepo(db database.DB) *FlashcardRepo {
	return &FlashcardRepo{db: db}
}

func (r *FlashcardRepo) q(ctx context.Context) database.Querier {
	return database.QuerierFromCtx(ctx, r.db)
}

// AttachFlashcards bulk-inserts cards for packID in one statement, assigning
// ids and positions in place. An empty slice is a no-op.
func (r *FlashcardRepo) AttachFlashcards(ctx context.Context, packID uuid.UUID, cards []models.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}

	insert := psql.Insert("flashcards").Columns("id", "study_pack_id", "question", "answer", "position")
	for i := range cards {
		cards[i].ID = uuid.New()
		cards[i].StudyPackID = packID
		cards[i].Position = i
		insert = insert.Values(cards[i].ID, packID, cards[i].Question, cards[i].Answer, i)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	_, err = r.q(ctx).Exec(ctx, sql, args...)
	return mapError(err, "study pack", packID)
}

func (r *FlashcardRepo) ListByPack(ctx context.Context, packID uuid.UUID) ([]models.Flashcard, error) {
	query := `SELECT id, study_pack_id, question, answer, position
		FROM flashcards WHERE study_pack_id = $1 ORDER BY position ASC`

	rows, err := r.q(ctx).Query(ctx, query, packID)
	if err != nil {
		return nil, mapError(err, "study pack", packID)
	}
	defer rows.Close()

	cards := []models.Flashcard{}
	for rows.Next() {
		c := models.Flashcard{}
		if err := rows.Scan(&c.ID, &c.StudyPackID, &c.Question, &c.Answer, &c.Position); err != nil {
			return nil, mapError(err, "study pack", packID)
		}
		cards = append(cards, c)
	}
	return cards, mapError(rows.Err(), "study pack", packID)
}

func (r *FlashcardRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	c := &models.Flashcard{}
	query := `SELECT id, study_pack_id, question, answer, position FROM flashcards WHERE id = $1`

	err := r.q(ctx).QueryRow(ctx, query, id).Scan(&c.ID, &c.StudyPackID, &c.Question, &c.Answer, &c.Position)
	if err != nil {
		return nil, mapError(err, "flashcard", id)
	}
	return c, nil
}
