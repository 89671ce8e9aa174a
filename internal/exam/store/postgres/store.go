// Package postgres persists the exam catalog, referee state, and finished
// attempts in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"refcert/internal/certification"
	"refcert/internal/exam/models"
	"refcert/internal/exam/scoring"
	id "refcert/pkg/domain"
	"refcert/pkg/platform/sentinel"
	platformtx "refcert/pkg/platform/tx"
)

// Schema contains the DDL for every table this store touches. Integration
// tests apply it against a fresh container before running.
//
//go:embed schema.sql
var Schema string

// Store persists exams, attempts, and referee snapshots in PostgreSQL.
type Store struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed exam store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetExam loads one exam with its question pool and answer options.
// Returns sentinel.ErrNotFound when the exam does not exist.
func (s *Store) GetExam(ctx context.Context, examID id.ExamID) (models.Exam, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, language, time_limit_seconds, pass_percentage,
		       max_attempts, question_count, recertifies_level, recertifies_version, is_active
		FROM exams
		WHERE id = $1
	`, uuid.UUID(examID))

	exam, err := scanExam(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Exam{}, sentinel.ErrNotFound
		}
		return models.Exam{}, fmt.Errorf("get exam: %w", err)
	}
	if err := s.attachExamChildren(ctx, &exam); err != nil {
		return models.Exam{}, err
	}
	return exam, nil
}

// ListActiveExams returns every exam currently open for attempts, including
// question pools so callers can evaluate eligibility and choose subsets.
func (s *Store) ListActiveExams(ctx context.Context) ([]models.Exam, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, language, time_limit_seconds, pass_percentage,
		       max_attempts, question_count, recertifies_level, recertifies_version, is_active
		FROM exams
		WHERE is_active
		ORDER BY title
	`)
	if err != nil {
		return nil, fmt.Errorf("list active exams: %w", err)
	}
	defer rows.Close()

	var exams []models.Exam
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("list active exams: %w", err)
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active exams: %w", err)
	}
	for i := range exams {
		if err := s.attachExamChildren(ctx, &exams[i]); err != nil {
			return nil, err
		}
	}
	return exams, nil
}

// SaveFinishedAttempt writes a finished attempt, its answer trail, and any
// awarded certifications in one transaction. The attempt insert uses
// ON CONFLICT DO NOTHING so a replayed write surfaces as sentinel.ErrConflict
// instead of a duplicate row.
func (s *Store) SaveFinishedAttempt(ctx context.Context, attempt models.Attempt, trail []scoring.GradedAnswer) error {
	if attempt.Finish == nil {
		return sentinel.ErrInvalidState
	}
	return s.withTx(ctx, func(txn *sql.Tx) error {
		res, err := txn.ExecContext(ctx, `
			INSERT INTO attempts (id, exam_id, referee_id, level, started_at, finished_at,
			                      finish_method, score, pass_percentage, passed, was_recertification)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING
		`,
			uuid.UUID(attempt.ID), uuid.UUID(attempt.ExamID), uuid.UUID(attempt.RefereeID),
			string(attempt.Level), attempt.StartedAt, attempt.Finish.FinishedAt,
			string(attempt.Finish.Method), attempt.Finish.Score, attempt.Finish.PassPercentage,
			attempt.Finish.Passed, attempt.Finish.WasRecertification,
		)
		if err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert attempt: %w", err)
		}
		if affected == 0 {
			return sentinel.ErrConflict
		}

		if err := insertTrail(ctx, txn, attempt.ID, trail); err != nil {
			return err
		}
		if err := insertAwards(ctx, txn, attempt); err != nil {
			return err
		}
		return nil
	})
}

// GetRefereeTestContext assembles the referee snapshot used by eligibility
// evaluation: held certifications, finished attempts, and confirmed payments.
func (s *Store) GetRefereeTestContext(ctx context.Context, refereeID id.RefereeID) (models.RefereeTestContext, error) {
	snapshot := models.RefereeTestContext{RefereeID: refereeID}

	err := s.db.QueryRowContext(ctx,
		`SELECT language FROM referees WHERE id = $1`, uuid.UUID(refereeID),
	).Scan(&snapshot.Language)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.RefereeTestContext{}, sentinel.ErrNotFound
		}
		return models.RefereeTestContext{}, fmt.Errorf("get referee: %w", err)
	}

	certs, err := s.loadCertifications(ctx, refereeID)
	if err != nil {
		return models.RefereeTestContext{}, err
	}
	snapshot.Certifications = certs

	paid, err := s.loadPayments(ctx, refereeID)
	if err != nil {
		return models.RefereeTestContext{}, err
	}
	snapshot.PaidVersions = paid

	attempts, err := s.loadAttempts(ctx, refereeID)
	if err != nil {
		return models.RefereeTestContext{}, err
	}
	snapshot.Attempts = attempts

	return snapshot, nil
}

// withTx runs fn inside the transaction from context when one is present,
// otherwise it owns its own transaction lifecycle.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	if existing, ok := platformtx.From(ctx); ok {
		return fn(existing)
	}
	txn, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(txn); err != nil {
		_ = txn.Rollback()
		return err
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertTrail(ctx context.Context, txn *sql.Tx, attemptID id.AttemptID, trail []scoring.GradedAnswer) error {
	if len(trail) == 0 {
		return nil
	}
	questionIDs := make([]uuid.UUID, 0, len(trail))
	answerIDs := make([]uuid.UUID, 0, len(trail))
	correct := make([]bool, 0, len(trail))
	points := make([]int64, 0, len(trail))
	for _, graded := range trail {
		questionIDs = append(questionIDs, uuid.UUID(graded.QuestionID))
		answerIDs = append(answerIDs, uuid.UUID(graded.AnswerID))
		correct = append(correct, graded.Correct)
		points = append(points, int64(graded.Points))
	}

	// Batch insert with unnest: one round trip regardless of trail length.
	_, err := txn.ExecContext(ctx, `
		INSERT INTO attempt_answers (attempt_id, question_id, answer_id, correct, points)
		SELECT $1, unnest($2::uuid[]), unnest($3::uuid[]), unnest($4::boolean[]), unnest($5::int[])
	`, uuid.UUID(attemptID), pq.Array(questionIDs), pq.Array(answerIDs), pq.Array(correct), pq.Array(points))
	if err != nil {
		return fmt.Errorf("insert attempt trail: %w", err)
	}
	return nil
}

func insertAwards(ctx context.Context, txn *sql.Tx, attempt models.Attempt) error {
	if !attempt.Finish.Passed || len(attempt.Finish.Awarded) == 0 {
		return nil
	}
	levels := make([]string, 0, len(attempt.Finish.Awarded))
	versions := make([]int64, 0, len(attempt.Finish.Awarded))
	for _, cert := range attempt.Finish.Awarded {
		levels = append(levels, string(cert.Level))
		versions = append(versions, int64(cert.Version))
	}

	_, err := txn.ExecContext(ctx, `
		INSERT INTO attempt_awards (attempt_id, level, version)
		SELECT $1, unnest($2::text[]), unnest($3::int[])
	`, uuid.UUID(attempt.ID), pq.Array(levels), pq.Array(versions))
	if err != nil {
		return fmt.Errorf("insert attempt awards: %w", err)
	}

	_, err = txn.ExecContext(ctx, `
		INSERT INTO referee_certifications (referee_id, level, version, awarded_at)
		SELECT $1, unnest($2::text[]), unnest($3::int[]), $4
		ON CONFLICT (referee_id, level, version) DO NOTHING
	`, uuid.UUID(attempt.RefereeID), pq.Array(levels), pq.Array(versions), attempt.Finish.FinishedAt)
	if err != nil {
		return fmt.Errorf("insert referee certifications: %w", err)
	}
	return nil
}

func (s *Store) loadCertifications(ctx context.Context, refereeID id.RefereeID) ([]certification.Certification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT level, version
		FROM referee_certifications
		WHERE referee_id = $1
	`, uuid.UUID(refereeID))
	if err != nil {
		return nil, fmt.Errorf("load certifications: %w", err)
	}
	defer rows.Close()

	var certs []certification.Certification
	for rows.Next() {
		var level string
		var version int
		if err := rows.Scan(&level, &version); err != nil {
			return nil, fmt.Errorf("load certifications: %w", err)
		}
		certs = append(certs, certification.Certification{
			Level:   certification.Level(level),
			Version: certification.RulebookVersion(version),
		})
	}
	return certs, rows.Err()
}

func (s *Store) loadPayments(ctx context.Context, refereeID id.RefereeID) ([]certification.RulebookVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version FROM referee_payments WHERE referee_id = $1`, uuid.UUID(refereeID))
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	defer rows.Close()

	var versions []certification.RulebookVersion
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("load payments: %w", err)
		}
		versions = append(versions, certification.RulebookVersion(version))
	}
	return versions, rows.Err()
}

func (s *Store) loadAttempts(ctx context.Context, refereeID id.RefereeID) ([]models.Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.exam_id, a.level, a.started_at, a.finished_at, a.finish_method,
		       a.score, a.pass_percentage, a.passed, a.was_recertification,
		       COALESCE(array_agg(aw.level) FILTER (WHERE aw.level IS NOT NULL), '{}'),
		       COALESCE(array_agg(aw.version) FILTER (WHERE aw.version IS NOT NULL), '{}')
		FROM attempts a
		LEFT JOIN attempt_awards aw ON aw.attempt_id = a.id
		WHERE a.referee_id = $1
		GROUP BY a.id
		ORDER BY a.started_at
	`, uuid.UUID(refereeID))
	if err != nil {
		return nil, fmt.Errorf("load attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var (
			attemptID, examID uuid.UUID
			level             string
			finish            models.AttemptFinish
			method            string
			awardLevels       []string
			awardVersions     []int64
			startedAt         time.Time
		)
		err := rows.Scan(
			&attemptID, &examID, &level, &startedAt, &finish.FinishedAt, &method,
			&finish.Score, &finish.PassPercentage, &finish.Passed, &finish.WasRecertification,
			pq.Array(&awardLevels), pq.Array(&awardVersions),
		)
		if err != nil {
			return nil, fmt.Errorf("load attempts: %w", err)
		}
		finish.Method = models.FinishMethod(method)
		for i := range awardLevels {
			finish.Awarded = append(finish.Awarded, certification.Certification{
				Level:   certification.Level(awardLevels[i]),
				Version: certification.RulebookVersion(awardVersions[i]),
			})
		}
		attempts = append(attempts, models.Attempt{
			ID:        id.AttemptID(attemptID),
			ExamID:    id.ExamID(examID),
			RefereeID: refereeID,
			Level:     certification.Level(level),
			StartedAt: startedAt,
			Finish:    &finish,
		})
	}
	return attempts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExam(row rowScanner) (models.Exam, error) {
	var (
		examID        uuid.UUID
		exam          models.Exam
		timeLimit     int64
		recertLevel   sql.NullString
		recertVersion sql.NullInt64
	)
	err := row.Scan(
		&examID, &exam.Title, &exam.Description, &exam.Language, &timeLimit,
		&exam.PassPercentage, &exam.MaxAttempts, &exam.QuestionCount,
		&recertLevel, &recertVersion, &exam.IsActive,
	)
	if err != nil {
		return models.Exam{}, err
	}
	exam.ID = id.ExamID(examID)
	exam.TimeLimit = time.Duration(timeLimit) * time.Second
	if recertLevel.Valid && recertVersion.Valid {
		exam.Recertifies = &certification.Certification{
			Level:   certification.Level(recertLevel.String),
			Version: certification.RulebookVersion(recertVersion.Int64),
		}
	}
	return exam, nil
}

func (s *Store) attachExamChildren(ctx context.Context, exam *models.Exam) error {
	awarded, err := s.loadAwardedCertifications(ctx, exam.ID)
	if err != nil {
		return err
	}
	exam.AwardedCertifications = awarded

	questions, err := s.loadQuestions(ctx, exam.ID)
	if err != nil {
		return err
	}
	exam.Questions = questions
	return nil
}

func (s *Store) loadAwardedCertifications(ctx context.Context, examID id.ExamID) ([]certification.Certification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT level, version
		FROM exam_certifications
		WHERE exam_id = $1
		ORDER BY version, level
	`, uuid.UUID(examID))
	if err != nil {
		return nil, fmt.Errorf("load exam certifications: %w", err)
	}
	defer rows.Close()

	var certs []certification.Certification
	for rows.Next() {
		var level string
		var version int
		if err := rows.Scan(&level, &version); err != nil {
			return nil, fmt.Errorf("load exam certifications: %w", err)
		}
		certs = append(certs, certification.Certification{
			Level:   certification.Level(level),
			Version: certification.RulebookVersion(version),
		})
	}
	return certs, rows.Err()
}

func (s *Store) loadQuestions(ctx context.Context, examID id.ExamID) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, points
		FROM questions
		WHERE exam_id = $1
		ORDER BY id
	`, uuid.UUID(examID))
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	index := make(map[id.QuestionID]int)
	for rows.Next() {
		var questionID uuid.UUID
		var question models.Question
		if err := rows.Scan(&questionID, &question.Text, &question.Points); err != nil {
			return nil, fmt.Errorf("load questions: %w", err)
		}
		question.ID = id.QuestionID(questionID)
		index[question.ID] = len(questions)
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, nil
	}

	questionIDs := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, uuid.UUID(q.ID))
	}
	answerRows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, text, correct
		FROM answers
		WHERE question_id = ANY($1)
		ORDER BY id
	`, pq.Array(questionIDs))
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer answerRows.Close()

	for answerRows.Next() {
		var answerID, questionID uuid.UUID
		var answer models.Answer
		if err := answerRows.Scan(&answerID, &questionID, &answer.Text, &answer.Correct); err != nil {
			return nil, fmt.Errorf("load answers: %w", err)
		}
		answer.ID = id.AnswerID(answerID)
		if i, ok := index[id.QuestionID(questionID)]; ok {
			questions[i].Answers = append(questions[i].Answers, answer)
		}
	}
	return questions, answerRows.Err()
}
