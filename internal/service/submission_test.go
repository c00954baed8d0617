package service

import (
	"encoding/json"
	"testing"

	"github.com/ataredge/tutorhub/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitInquiry(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.tutors.EnsureSampleTutor())
	tutors, err := env.tutors.Tutors("")
	require.NoError(t, err)

	in := &model.Inquiry{FullName: "Pat Parent", Email: "pat@example.com", Relation: "Parent", Message: "Line 1\nLine 2"}
	tutor, err := env.submissions.SubmitInquiry(tutors[0].ID, in)
	require.NoError(t, err)
	assert.Equal(t, tutors[0].ID, tutor.ID)
	assert.Equal(t, model.StatusOpen, in.Status)

	open, err := env.triage.Inquiries()
	require.NoError(t, err)
	require.Len(t, open.Open, 1)
	assert.Equal(t, "Hariharan Manikandan", model.Str(open.Open[0].TutorName))

	assert.Equal(t, 2, env.queued(t), "internal notice and acknowledgement")

	var payload string
	require.NoError(t, env.db.Get(&payload, `SELECT payload FROM notification_jobs WHERE payload LIKE '%inquiry_internal%'`))
	var msg model.EmailMessage
	require.NoError(t, json.Unmarshal([]byte(payload), &msg))
	assert.Equal(t, []string{testFounder}, msg.To)
	assert.Equal(t, []string{"hariharan@ataredgeacademy.com.au"}, msg.Cc)
	assert.Contains(t, msg.HTML, "Line 1<br/>Line 2")
}

func TestSubmitInquiryForNonTutor(t *testing.T) {
	env := newTestEnv(t)

	member, err := env.auth.Signup("Student", "s@example.com", "pw")
	require.NoError(t, err)

	_, err = env.submissions.SubmitInquiry(member.ID, &model.Inquiry{FullName: "X"})
	assert.ErrorIs(t, err, ErrNotTutor)
	_, err = env.submissions.SubmitInquiry("missing", &model.Inquiry{FullName: "X"})
	assert.ErrorIs(t, err, ErrNotTutor)

	counts, err := env.triage.Counts()
	require.NoError(t, err)
	assert.Zero(t, counts.Inquiries)
	assert.Zero(t, env.queued(t))
}

func TestSubmitContactEscapesHTML(t *testing.T) {
	env := newTestEnv(t)

	c := &model.Contact{Name: "<script>x</script>", Email: "c@example.com", Message: "hi"}
	require.NoError(t, env.submissions.SubmitContact(c))
	assert.Equal(t, 2, env.queued(t))

	var payload string
	require.NoError(t, env.db.Get(&payload, `SELECT payload FROM notification_jobs WHERE payload LIKE '%contact_internal%'`))
	var msg model.EmailMessage
	require.NoError(t, json.Unmarshal([]byte(payload), &msg))
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestSubmitApplicationWithoutUsableEmail(t *testing.T) {
	env := newTestEnv(t)

	a := &model.Application{FullName: "Tutor Hopeful", Email: "not an email"}
	require.NoError(t, env.submissions.SubmitApplication(a))

	counts, err := env.triage.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Applications)
	assert.Equal(t, 1, env.queued(t), "no acknowledgement without an address")
}

func TestSubmitContactStoreFailureLeavesNothing(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.db.Exec(`CREATE TRIGGER contacts_fail BEFORE INSERT ON contacts BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)

	err = env.submissions.SubmitContact(&model.Contact{Name: "Casey", Email: "c@example.com", Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save contact")

	counts, err := env.triage.Counts()
	require.NoError(t, err)
	assert.Zero(t, counts.Contacts)
	assert.Zero(t, env.queued(t), "no emails for a submission that was not stored")
}

func TestSubmissionsSurviveQueueFailure(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.tutors.EnsureSampleTutor())
	tutors, err := env.tutors.Tutors("")
	require.NoError(t, err)

	_, err = env.db.Exec(`DROP TABLE notification_jobs`)
	require.NoError(t, err)

	require.NoError(t, env.submissions.SubmitContact(&model.Contact{Name: "Casey", Email: "c@example.com", Message: "hi"}))
	require.NoError(t, env.submissions.SubmitApplication(&model.Application{FullName: "Tutor Hopeful", Email: "t@example.com"}))
	_, err = env.submissions.SubmitInquiry(tutors[0].ID, &model.Inquiry{FullName: "Pat Parent", Email: "pat@example.com"})
	require.NoError(t, err)

	counts, err := env.triage.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Contacts)
	assert.Equal(t, 1, counts.Applications)
	assert.Equal(t, 1, counts.Inquiries)
}
