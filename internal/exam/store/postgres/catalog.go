package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"refcert/internal/certification"
	"refcert/internal/exam/models"
	id "refcert/pkg/domain"
)

// SaveExam upserts an exam definition together with its awarded
// certifications, question pool, and answer options. Children are replaced
// wholesale; the catalog is managed, not user-facing, so last write wins.
func (s *Store) SaveExam(ctx context.Context, exam models.Exam) error {
	if err := exam.Validate(); err != nil {
		return err
	}
	return s.withTx(ctx, func(txn *sql.Tx) error {
		var recertLevel sql.NullString
		var recertVersion sql.NullInt64
		if exam.Recertifies != nil {
			recertLevel = sql.NullString{String: string(exam.Recertifies.Level), Valid: true}
			recertVersion = sql.NullInt64{Int64: int64(exam.Recertifies.Version), Valid: true}
		}

		_, err := txn.ExecContext(ctx, `
			INSERT INTO exams (id, title, description, language, time_limit_seconds, pass_percentage,
			                   max_attempts, question_count, recertifies_level, recertifies_version, is_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				language = EXCLUDED.language,
				time_limit_seconds = EXCLUDED.time_limit_seconds,
				pass_percentage = EXCLUDED.pass_percentage,
				max_attempts = EXCLUDED.max_attempts,
				question_count = EXCLUDED.question_count,
				recertifies_level = EXCLUDED.recertifies_level,
				recertifies_version = EXCLUDED.recertifies_version,
				is_active = EXCLUDED.is_active
		`,
			uuid.UUID(exam.ID), exam.Title, exam.Description, exam.Language,
			int64(exam.TimeLimit.Seconds()), exam.PassPercentage, exam.MaxAttempts,
			exam.QuestionCount, recertLevel, recertVersion, exam.IsActive,
		)
		if err != nil {
			return fmt.Errorf("upsert exam: %w", err)
		}

		for _, table := range []string{"exam_certifications", "questions"} {
			if _, err := txn.ExecContext(ctx,
				fmt.Sprintf(`DELETE FROM %s WHERE exam_id = $1`, table), uuid.UUID(exam.ID)); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		levels := make([]string, 0, len(exam.AwardedCertifications))
		versions := make([]int64, 0, len(exam.AwardedCertifications))
		for _, cert := range exam.AwardedCertifications {
			levels = append(levels, string(cert.Level))
			versions = append(versions, int64(cert.Version))
		}
		_, err = txn.ExecContext(ctx, `
			INSERT INTO exam_certifications (exam_id, level, version)
			SELECT $1, unnest($2::text[]), unnest($3::int[])
		`, uuid.UUID(exam.ID), pq.Array(levels), pq.Array(versions))
		if err != nil {
			return fmt.Errorf("insert exam certifications: %w", err)
		}

		for _, question := range exam.Questions {
			if err := insertQuestion(ctx, txn, exam.ID, question); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertQuestion(ctx context.Context, txn *sql.Tx, examID id.ExamID, question models.Question) error {
	_, err := txn.ExecContext(ctx, `
		INSERT INTO questions (id, exam_id, text, points)
		VALUES ($1, $2, $3, $4)
	`, uuid.UUID(question.ID), uuid.UUID(examID), question.Text, question.Points)
	if err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	if len(question.Answers) == 0 {
		return nil
	}

	answerIDs := make([]uuid.UUID, 0, len(question.Answers))
	texts := make([]string, 0, len(question.Answers))
	correct := make([]bool, 0, len(question.Answers))
	for _, answer := range question.Answers {
		answerIDs = append(answerIDs, uuid.UUID(answer.ID))
		texts = append(texts, answer.Text)
		correct = append(correct, answer.Correct)
	}
	_, err = txn.ExecContext(ctx, `
		INSERT INTO answers (id, question_id, text, correct)
		SELECT unnest($1::uuid[]), $2, unnest($3::text[]), unnest($4::boolean[])
	`, pq.Array(answerIDs), uuid.UUID(question.ID), pq.Array(texts), pq.Array(correct))
	if err != nil {
		return fmt.Errorf("insert answers: %w", err)
	}
	return nil
}

// SaveReferee upserts a referee profile.
func (s *Store) SaveReferee(ctx context.Context, refereeID id.RefereeID, language string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO referees (id, language)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET language = EXCLUDED.language
	`, uuid.UUID(refereeID), language)
	if err != nil {
		return fmt.Errorf("upsert referee: %w", err)
	}
	return nil
}

// GrantCertification records a certification a referee already holds, e.g.
// one migrated from a previous system.
func (s *Store) GrantCertification(ctx context.Context, refereeID id.RefereeID, cert certification.Certification) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO referee_certifications (referee_id, level, version)
		VALUES ($1, $2, $3)
		ON CONFLICT (referee_id, level, version) DO NOTHING
	`, uuid.UUID(refereeID), string(cert.Level), int(cert.Version))
	if err != nil {
		return fmt.Errorf("grant certification: %w", err)
	}
	return nil
}

// ConfirmPayment records a confirmed Advanced-level payment for a rulebook
// version.
func (s *Store) ConfirmPayment(ctx context.Context, refereeID id.RefereeID, version certification.RulebookVersion) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO referee_payments (referee_id, version)
		VALUES ($1, $2)
		ON CONFLICT (referee_id, version) DO NOTHING
	`, uuid.UUID(refereeID), int(version))
	if err != nil {
		return fmt.Errorf("confirm payment: %w", err)
	}
	return nil
}
