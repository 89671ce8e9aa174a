package eligibility

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refcert/internal/certification"
	"refcert/internal/exam/models"
	id "refcert/pkg/domain"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

// examAwarding builds a minimal active exam fixture awarding the given
// certifications.
func examAwarding(certs ...certification.Certification) models.Exam {
	return models.Exam{
		ID:                    id.ExamID(uuid.New()),
		Title:                 "fixture",
		Language:              "en",
		TimeLimit:             30 * time.Minute,
		PassPercentage:        80,
		MaxAttempts:           3,
		QuestionCount:         1,
		AwardedCertifications: certs,
		IsActive:              true,
	}
}

func recertExam(old certification.Certification, awards ...certification.Certification) models.Exam {
	e := examAwarding(awards...)
	e.Recertifies = &old
	return e
}

func referee(certs ...certification.Certification) models.RefereeTestContext {
	return models.RefereeTestContext{
		RefereeID:      id.RefereeID(uuid.New()),
		Certifications: certs,
		Language:       "en",
	}
}

func evaluate(t *testing.T, p Policy, exam models.Exam, ref models.RefereeTestContext) Reason {
	t.Helper()
	reason, err := p.Evaluate(Input{Exam: exam, Referee: ref, Now: testNow})
	require.NoError(t, err)
	return reason
}

func TestRequiredCertification_NoCertifications(t *testing.T) {
	ref := referee()

	t.Run("eligible for basic exams of any version", func(t *testing.T) {
		for _, v := range []certification.RulebookVersion{18, 20, 22} {
			exam := examAwarding(certification.New(certification.LevelBasic, v))
			assert.Equal(t, ReasonEligible, evaluate(t, RequiredCertificationPolicy{}, exam, ref))
		}
	})

	t.Run("eligible for scorekeeper exams", func(t *testing.T) {
		exam := examAwarding(certification.New(certification.LevelScorekeeper, 22))
		assert.Equal(t, ReasonEligible, evaluate(t, RequiredCertificationPolicy{}, exam, ref))
	})

	t.Run("ineligible for intermediate and advanced exams", func(t *testing.T) {
		for _, l := range []certification.Level{certification.LevelIntermediate, certification.LevelAdvanced} {
			exam := examAwarding(certification.New(l, 20))
			assert.Equal(t, ReasonMissingRequiredCertification, evaluate(t, RequiredCertificationPolicy{}, exam, ref))
		}
	})
}

func TestRequiredCertification_PerVersionChain(t *testing.T) {
	ref := referee(
		certification.New(certification.LevelBasic, 18),
		certification.New(certification.LevelBasic, 20),
	)

	t.Run("eligible for intermediate of held versions", func(t *testing.T) {
		for _, v := range []certification.RulebookVersion{18, 20} {
			exam := examAwarding(certification.New(certification.LevelIntermediate, v))
			assert.Equal(t, ReasonEligible, evaluate(t, RequiredCertificationPolicy{}, exam, ref))
		}
	})

	t.Run("ineligible for intermediate of an unheld version", func(t *testing.T) {
		exam := examAwarding(certification.New(certification.LevelIntermediate, 22))
		assert.Equal(t, ReasonMissingRequiredCertification, evaluate(t, RequiredCertificationPolicy{}, exam, ref))
	})

	t.Run("prerequisite is checked for the lowest awarded level", func(t *testing.T) {
		// Exam awarding Intermediate+Advanced together checks Basic, the
		// prerequisite of the lowest awarded level.
		exam := examAwarding(
			certification.New(certification.LevelIntermediate, 20),
			certification.New(certification.LevelAdvanced, 20),
		)
		assert.Equal(t, ReasonEligible, evaluate(t, RequiredCertificationPolicy{}, exam, ref))
	})
}

func TestRequiredCertification_Recertification(t *testing.T) {
	oldCert := certification.New(certification.LevelIntermediate, 20)
	exam := recertExam(oldCert,
		certification.New(certification.LevelBasic, 22),
		certification.New(certification.LevelIntermediate, 22),
	)

	t.Run("eligible when holding the recertified chain and nothing newer", func(t *testing.T) {
		ref := referee(
			certification.New(certification.LevelBasic, 20),
			certification.New(certification.LevelIntermediate, 20),
		)
		assert.Equal(t, ReasonEligible, evaluate(t, RequiredCertificationPolicy{}, exam, ref))
	})

	t.Run("ineligible without the recertified certification", func(t *testing.T) {
		ref := referee(certification.New(certification.LevelBasic, 20))
		assert.Equal(t, ReasonMissingRequiredCertification, evaluate(t, RequiredCertificationPolicy{}, exam, ref))
	})

	t.Run("ineligible once the new version chain has started", func(t *testing.T) {
		ref := referee(
			certification.New(certification.LevelBasic, 20),
			certification.New(certification.LevelIntermediate, 20),
			certification.New(certification.LevelBasic, 22),
		)
		assert.Equal(t, ReasonRecertificationNotAllowedDueToInitialCertificationStarted,
			evaluate(t, RequiredCertificationPolicy{}, exam, ref))
	})
}

func TestAlreadyCertified(t *testing.T) {
	t.Run("denies when every awarded certification is already held", func(t *testing.T) {
		ref := referee(certification.New(certification.LevelBasic, 20))
		exam := examAwarding(certification.New(certification.LevelBasic, 20))
		assert.Equal(t, ReasonRefereeAlreadyCertified, evaluate(t, AlreadyCertifiedPolicy{}, exam, ref))
	})

	t.Run("allows when the exam still has something to award", func(t *testing.T) {
		ref := referee(certification.New(certification.LevelBasic, 22))
		exam := examAwarding(
			certification.New(certification.LevelBasic, 22),
			certification.New(certification.LevelIntermediate, 22),
		)
		assert.Equal(t, ReasonEligible, evaluate(t, AlreadyCertifiedPolicy{}, exam, ref))
	})
}

func TestMaxAttempts(t *testing.T) {
	exam := examAwarding(certification.New(certification.LevelBasic, 22))
	exam.MaxAttempts = 2

	attemptAt := func(examID id.ExamID) models.Attempt {
		return models.Attempt{
			ID:        id.NewAttemptID(),
			ExamID:    examID,
			StartedAt: testNow.Add(-30 * 24 * time.Hour),
			Finish:    &models.AttemptFinish{FinishedAt: testNow.Add(-30 * 24 * time.Hour)},
		}
	}

	t.Run("below the cap", func(t *testing.T) {
		ref := referee()
		ref.Attempts = []models.Attempt{attemptAt(exam.ID)}
		assert.Equal(t, ReasonEligible, evaluate(t, MaxAttemptsPolicy{}, exam, ref))
	})

	t.Run("at the cap", func(t *testing.T) {
		ref := referee()
		ref.Attempts = []models.Attempt{attemptAt(exam.ID), attemptAt(exam.ID)}
		assert.Equal(t, ReasonTestAttemptedMaximumNumberOfTimes, evaluate(t, MaxAttemptsPolicy{}, exam, ref))
	})

	t.Run("attempts at other exams do not count", func(t *testing.T) {
		ref := referee()
		ref.Attempts = []models.Attempt{attemptAt(id.ExamID(uuid.New())), attemptAt(id.ExamID(uuid.New()))}
		assert.Equal(t, ReasonEligible, evaluate(t, MaxAttemptsPolicy{}, exam, ref))
	})
}

func TestCooldown(t *testing.T) {
	finished := func(examID id.ExamID, finishedAt time.Time) models.Attempt {
		return models.Attempt{
			ID:        id.NewAttemptID(),
			ExamID:    examID,
			StartedAt: finishedAt.Add(-20 * time.Minute),
			Finish:    &models.AttemptFinish{FinishedAt: finishedAt},
		}
	}

	t.Run("basic exam blocks for one day from finish", func(t *testing.T) {
		exam := examAwarding(certification.New(certification.LevelBasic, 22))
		ref := referee()

		ref.Attempts = []models.Attempt{finished(exam.ID, testNow.Add(-23*time.Hour))}
		assert.Equal(t, ReasonInCooldownPeriod, evaluate(t, CooldownPolicy{}, exam, ref))

		ref.Attempts = []models.Attempt{finished(exam.ID, testNow.Add(-25*time.Hour))}
		assert.Equal(t, ReasonEligible, evaluate(t, CooldownPolicy{}, exam, ref))
	})

	t.Run("advanced exam blocks for three days from finish", func(t *testing.T) {
		exam := examAwarding(certification.New(certification.LevelAdvanced, 22))
		ref := referee()

		ref.Attempts = []models.Attempt{finished(exam.ID, testNow.Add(-71*time.Hour))}
		assert.Equal(t, ReasonInCooldownPeriod, evaluate(t, CooldownPolicy{}, exam, ref))

		ref.Attempts = []models.Attempt{finished(exam.ID, testNow.Add(-73*time.Hour))}
		assert.Equal(t, ReasonEligible, evaluate(t, CooldownPolicy{}, exam, ref))
	})

	t.Run("in-progress attempt anchors at assumed worst-case finish", func(t *testing.T) {
		exam := examAwarding(certification.New(certification.LevelBasic, 22))
		ref := referee()

		// Started 10 minutes ago with a 30 minute limit: window opens in 20
		// minutes, so the cooldown still covers "now".
		ref.Attempts = []models.Attempt{{
			ID:        id.NewAttemptID(),
			ExamID:    exam.ID,
			StartedAt: testNow.Add(-10 * time.Minute),
		}}
		assert.Equal(t, ReasonInCooldownPeriod, evaluate(t, CooldownPolicy{}, exam, ref))
	})

	t.Run("cooldowns from other exams are ignored", func(t *testing.T) {
		exam := examAwarding(certification.New(certification.LevelBasic, 22))
		ref := referee()
		ref.Attempts = []models.Attempt{finished(id.ExamID(uuid.New()), testNow.Add(-time.Hour))}
		assert.Equal(t, ReasonEligible, evaluate(t, CooldownPolicy{}, exam, ref))
	})
}

func TestPayment(t *testing.T) {
	exam := examAwarding(certification.New(certification.LevelAdvanced, 22))

	t.Run("advanced exam without payment is denied", func(t *testing.T) {
		ref := referee(
			certification.New(certification.LevelBasic, 22),
			certification.New(certification.LevelIntermediate, 22),
		)
		assert.Equal(t, ReasonMissingCertificationPayment, evaluate(t, PaymentPolicy{}, exam, ref))
	})

	t.Run("advanced exam with payment for the version passes", func(t *testing.T) {
		ref := referee()
		ref.PaidVersions = []certification.RulebookVersion{22}
		assert.Equal(t, ReasonEligible, evaluate(t, PaymentPolicy{}, exam, ref))
	})

	t.Run("payment for another version does not count", func(t *testing.T) {
		ref := referee()
		ref.PaidVersions = []certification.RulebookVersion{20}
		assert.Equal(t, ReasonMissingCertificationPayment, evaluate(t, PaymentPolicy{}, exam, ref))
	})

	t.Run("non-advanced exams need no payment", func(t *testing.T) {
		basic := examAwarding(certification.New(certification.LevelBasic, 22))
		assert.Equal(t, ReasonEligible, evaluate(t, PaymentPolicy{}, basic, referee()))
	})
}

func TestLanguage(t *testing.T) {
	exam := examAwarding(certification.New(certification.LevelBasic, 22))

	t.Run("matching language passes", func(t *testing.T) {
		assert.Equal(t, ReasonEligible, evaluate(t, LanguagePolicy{}, exam, referee()))
	})

	t.Run("mismatch denies without a dedicated reason code", func(t *testing.T) {
		ref := referee()
		ref.Language = "de"
		assert.Equal(t, ReasonUnknown, evaluate(t, LanguagePolicy{}, exam, ref))
	})
}
