package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"skill_barter/config"
	"skill_barter/db"
	"skill_barter/metrics"
	"skill_barter/models"
	"skill_barter/repository"
)

// =====================
// 测试桩
// =====================

type embedFunc func(ctx context.Context, text string) ([]float32, error)

func (f embedFunc) Embed(ctx context.Context, text string) ([]float32, error) { return f(ctx, text) }

type stubBio struct {
	bio   string
	err   error
	teach []string
}

func (s *stubBio) GenerateBio(ctx context.Context, teach, learn []string) (string, error) {
	s.teach = teach
	return s.bio, s.err
}

type memStore struct {
	keys []string
	data map[string][]byte
	err  error
}

func (m *memStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	b, _ := io.ReadAll(body)
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = b
	m.keys = append(m.keys, key)
	return "https://cdn.example.com/" + key, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Credits.Initial = 5
	cfg.Credits.UpvoteRewardEvery = 10
	cfg.Session.MeetLink = "https://meet.google.com/new"
	cfg.Upload.Prefix = "skillbarter_chat"
	cfg.Upload.MaxSizeMB = 1
	cfg.Scheduler.BackfillBatch = 50
	cfg.Scheduler.Concurrency = 2
	return cfg
}

func setupServices(t *testing.T, d Deps) (*config.Config, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := db.DB
	db.DB = mockDB
	cfg := testConfig()
	Setup(cfg, d)
	t.Cleanup(func() {
		db.DB = prev
		Setup(cfg, Deps{})
		if closeErr := mockDB.Close(); closeErr != nil {
			t.Logf("Failed to close mock db: %v", closeErr)
		}
	})
	return cfg, mock
}

var userCols = []string{"id", "username", "email", "password_hash", "bio", "gender", "phone",
	"skills", "embedding", "credits", "created_at", "updated_at"}

func userRow(id, username, email, hash, skills, embedding string, credits int) *sqlmock.Rows {
	now := time.Now()
	var emb interface{}
	if embedding != "" {
		emb = embedding
	}
	return sqlmock.NewRows(userCols).AddRow(id, username, email, hash, "", nil, nil, skills, emb, credits, now, now)
}

// =====================
// 匹配
// =====================

func TestMatchUsers_DegradesWhenEmbeddingFails(t *testing.T) {
	_, mock := setupServices(t, Deps{Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	})})
	mock.ExpectQuery("SELECT id, username, bio, skills, embedding FROM users").WillReturnRows(
		sqlmock.NewRows([]string{"id", "username", "bio", "skills", "embedding"}).
			AddRow("alice", "Alice", "", `[{"name":"React","type":"teach","level":4}]`, nil).
			AddRow("bob", "Bob", "", `[{"name":"React","type":"learn","level":1}]`, nil))

	results, err := MatchUsers(context.Background(), "React", models.FilterSkill)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice", results[0].ID)
	assert.InDelta(t, 0.5, results[0].Score, 1e-9)
}

func TestMatchUsers_CountsEmbeddingOutcome(t *testing.T) {
	failures := metrics.EmbeddingRequests.WithLabelValues("match", "error")
	successes := metrics.EmbeddingRequests.WithLabelValues("match", "ok")
	profiles := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "bio", "skills", "embedding"}).
			AddRow("alice", "Alice", "", `[{"name":"React","type":"teach","level":4}]`, nil)
	}

	_, mock := setupServices(t, Deps{Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("quota exceeded")
	})})
	mock.ExpectQuery("SELECT id, username").WillReturnRows(profiles())
	before := testutil.ToFloat64(failures)

	_, err := MatchUsers(context.Background(), "React", models.FilterSkill)

	require.NoError(t, err)
	assert.Equal(t, before+1, testutil.ToFloat64(failures))

	_, mock = setupServices(t, Deps{Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	})})
	mock.ExpectQuery("SELECT id, username").WillReturnRows(profiles())
	okBefore := testutil.ToFloat64(successes)

	_, err = MatchUsers(context.Background(), "React", models.FilterSkill)

	require.NoError(t, err)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(successes))
	assert.Equal(t, before+1, testutil.ToFloat64(failures))
}

func TestMatchUsers_StoreFailure(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectQuery("SELECT id, username").WillReturnError(errors.New("db down"))

	_, err := MatchUsers(context.Background(), "React", models.FilterSkill)

	assert.Error(t, err)
	assert.Equal(t, models.CodeDatabaseError, ErrorCode(err))
}

func TestMatchConfig_UsesConfiguredConstants(t *testing.T) {
	cfg := testConfig()
	cfg.Match.Threshold = 0.3
	cfg.Embedding.TimeoutSec = 2

	mc := MatchConfig(cfg)

	assert.Equal(t, 0.3, mc.Threshold)
	assert.Equal(t, 0.5, mc.SkillBoost)
	assert.Equal(t, 2*time.Second, mc.EmbedTimeout)
}

// =====================
// 账户
// =====================

func TestSignup_GeneratesBioAndEmbedding(t *testing.T) {
	var embeddedText string
	bio := &stubBio{bio: "I build web apps."}
	cfg, mock := setupServices(t, Deps{
		Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
			embeddedText = text
			return []float32{0.1, 0.2}, nil
		}),
		BioGen: bio,
	})
	mock.ExpectQuery("FROM users WHERE email").WithArgs("alice@example.com").WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := Signup(context.Background(), cfg, &models.SignupRequest{
		Username: "Alice_Code",
		Email:    " Alice@Example.com ",
		Password: "secret123",
		Skills: []models.Skill{
			{Name: "React", Type: models.SkillTeach, Level: 5},
			{Name: "Python", Type: models.SkillLearn, Level: 1},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "I build web apps.", res.Result.Bio)
	assert.Equal(t, []string{"React"}, bio.teach)
	assert.Equal(t, "Can teach: React. Wants to learn: Python. Bio: I build web apps.", embeddedText)
	assert.Equal(t, []float32{0.1, 0.2}, res.Result.Embedding)
	assert.Equal(t, 5, res.Result.Credits)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.Result.PasswordHash), []byte("secret123")))

	claims, err := ParseToken(cfg, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Result.ID, claims.ID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignup_ToleratesEmbeddingAndBioFailure(t *testing.T) {
	cfg, mock := setupServices(t, Deps{
		Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
			return nil, errors.New("503")
		}),
		BioGen: &stubBio{err: errors.New("llm down")},
	})
	mock.ExpectQuery("FROM users WHERE email").WillReturnRows(sqlmock.NewRows(userCols))
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	res, err := Signup(context.Background(), cfg, &models.SignupRequest{
		Username: "Bob", Email: "bob@example.com", Password: "secret123",
	})

	require.NoError(t, err)
	assert.Empty(t, res.Result.Bio)
	assert.Empty(t, res.Result.Embedding)
	assert.NotNil(t, res.Result.Skills)
}

func TestSignup_EmailTaken(t *testing.T) {
	cfg, mock := setupServices(t, Deps{})
	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(userRow("u1", "Alice", "alice@example.com", "x", "[]", "", 5))

	_, err := Signup(context.Background(), cfg, &models.SignupRequest{
		Username: "Alice", Email: "alice@example.com", Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, models.CodeEmailTaken, ErrorCode(err))
}

func TestSignup_Validation(t *testing.T) {
	cfg, _ := setupServices(t, Deps{})

	_, err := Signup(context.Background(), cfg, &models.SignupRequest{Username: "A", Email: "nope", Password: "1"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "Email(email)")
}

func TestSignin(t *testing.T) {
	cfg, mock := setupServices(t, Deps{})
	hash, err := bcrypt.GenerateFromPassword([]byte("right"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(userRow("u1", "Alice", "alice@example.com", string(hash), "[]", "", 5))
	_, err = Signin(context.Background(), cfg, &models.SigninRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	mock.ExpectQuery("FROM users WHERE email").
		WillReturnRows(userRow("u1", "Alice", "alice@example.com", string(hash), "[]", "", 5))
	res, err := Signin(context.Background(), cfg, &models.SigninRequest{Email: "alice@example.com", Password: "right"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	mock.ExpectQuery("FROM users WHERE email").WillReturnRows(sqlmock.NewRows(userCols))
	_, err = Signin(context.Background(), cfg, &models.SigninRequest{Email: "ghost@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestParseToken_Rejects(t *testing.T) {
	cfg := testConfig()
	u := &models.User{UserProfile: models.UserProfile{ID: "u1"}, Email: "a@b.c"}

	token, err := IssueToken(cfg, u)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "another-secret"
	_, err = ParseToken(other, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(cfg.JWT.Secret))
	require.NoError(t, err)
	_, err = ParseToken(cfg, signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken(cfg, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfile_KeepsEmbeddingOnFailure(t *testing.T) {
	_, mock := setupServices(t, Deps{Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("timeout")
	})})
	mock.ExpectQuery("FROM users WHERE id").
		WillReturnRows(userRow("u1", "Alice", "alice@example.com", "x", "[]", "[0.5,0.5]", 5))
	mock.ExpectExec("UPDATE users SET username").
		WithArgs("Alice", "New bio", "", "", `[{"name":"Go","type":"teach","level":3}]`, "[0.5,0.5]", sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	bio := "New bio"
	skills := []models.Skill{{Name: "Go", Type: models.SkillTeach, Level: 3}}
	u, err := UpdateProfile(context.Background(), "u1", &models.UpdateProfileRequest{Bio: &bio, Skills: &skills})

	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, u.Embedding)
	assert.Equal(t, "New bio", u.Bio)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfile_ReembedsOnSkillChange(t *testing.T) {
	_, mock := setupServices(t, Deps{Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	})})
	mock.ExpectQuery("FROM users WHERE id").
		WillReturnRows(userRow("u1", "Alice", "alice@example.com", "x", "[]", "", 5))
	mock.ExpectExec("UPDATE users SET username").WillReturnResult(sqlmock.NewResult(0, 1))

	skills := []models.Skill{{Name: "Go", Type: models.SkillTeach, Level: 3}}
	u, err := UpdateProfile(context.Background(), "u1", &models.UpdateProfileRequest{Skills: &skills})

	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, u.Embedding)
}

// =====================
// 积分 / 会话
// =====================

func TestSpendCredit_Insufficient(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectExec("UPDATE users SET credits = credits - 1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT credits FROM users").WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(0))

	_, err := SpendCredit(context.Background(), "u1")

	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Equal(t, models.CodeInsufficientCredits, ErrorCode(err))
}

func TestStartSession(t *testing.T) {
	cfg, mock := setupServices(t, Deps{})
	mock.ExpectQuery("FROM users WHERE id").WithArgs("teacher").
		WillReturnRows(userRow("teacher", "Bob", "bob@example.com", "x", "[]", "", 5))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET credits = credits - 1").WithArgs("learner").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT credits FROM users").WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(4))
	mock.ExpectQuery("SELECT id FROM message_requests").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	res, err := StartSession(context.Background(), cfg, "learner", "teacher")

	require.NoError(t, err)
	assert.Equal(t, "https://meet.google.com/new", res.MeetLink)
	assert.Equal(t, 4, res.Credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStartSession_WithSelf(t *testing.T) {
	cfg, _ := setupServices(t, Deps{})

	_, err := StartSession(context.Background(), cfg, "u1", "u1")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func requestRow(id, sender, recipient, status string) *sqlmock.Rows {
	cols := []string{"id", "sender_id", "recipient_id", "status", "scheduled_time", "note", "is_completed", "active_session_initiator", "created_at"}
	return sqlmock.NewRows(cols).AddRow(id, sender, recipient, status, nil, nil, false, nil, time.Now())
}

func TestRespondToRequest_OnlyRecipient(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectQuery("FROM message_requests WHERE id").WillReturnRows(requestRow("r1", "learner", "teacher", "pending"))

	_, err := RespondToRequest(context.Background(), "learner", "r1", &RespondInput{Status: models.RequestAccepted})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRespondToRequest_RejectsUnknownStatus(t *testing.T) {
	_, _ = setupServices(t, Deps{})

	_, err := RespondToRequest(context.Background(), "teacher", "r1", &RespondInput{Status: "maybe"})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRespondToRequest_Accepts(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectQuery("FROM message_requests WHERE id").WillReturnRows(requestRow("r1", "learner", "teacher", "pending"))
	mock.ExpectExec("UPDATE message_requests SET status = \\? WHERE id = \\? AND status = \\?").
		WithArgs("accepted", "r1", "pending").WillReturnResult(sqlmock.NewResult(0, 1))

	r, err := RespondToRequest(context.Background(), "teacher", "r1", &RespondInput{Status: models.RequestAccepted})

	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, r.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRespondToRequest_OnlyOnce(t *testing.T) {
	for _, status := range []string{"accepted", "rejected"} {
		_, mock := setupServices(t, Deps{})
		mock.ExpectQuery("FROM message_requests WHERE id").WillReturnRows(requestRow("r1", "learner", "teacher", status))

		_, err := RespondToRequest(context.Background(), "teacher", "r1", &RespondInput{Status: models.RequestRejected})

		assert.ErrorIs(t, err, ErrInvalidInput, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestRespondToRequest_CompletedRequestStaysCompleted(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	cols := []string{"id", "sender_id", "recipient_id", "status", "scheduled_time", "note", "is_completed", "active_session_initiator", "created_at"}
	mock.ExpectQuery("FROM message_requests WHERE id").WillReturnRows(
		sqlmock.NewRows(cols).AddRow("r1", "learner", "teacher", "accepted", nil, nil, true, nil, time.Now()))

	_, err := RespondToRequest(context.Background(), "teacher", "r1", &RespondInput{Status: models.RequestRejected})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRespondToRequest_ConcurrentResponseLoses(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectQuery("FROM message_requests WHERE id").WillReturnRows(requestRow("r1", "learner", "teacher", "pending"))
	mock.ExpectExec("UPDATE message_requests SET status").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := RespondToRequest(context.Background(), "teacher", "r1", &RespondInput{Status: models.RequestAccepted})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompleteRequest_RequiresAccepted(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectQuery("FROM message_requests WHERE id").WillReturnRows(requestRow("r1", "learner", "teacher", "pending"))

	_, err := CompleteRequest(context.Background(), "learner", "r1")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompleteRequest_CreditsTeacher(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectQuery("FROM message_requests WHERE id").WillReturnRows(requestRow("r1", "learner", "teacher", "accepted"))
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT recipient_id, is_completed").
		WillReturnRows(sqlmock.NewRows([]string{"recipient_id", "is_completed"}).AddRow("teacher", false))
	mock.ExpectExec("UPDATE message_requests SET is_completed = 1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET credits = credits \\+ \\?").WithArgs(1, "teacher").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT credits FROM users").WillReturnRows(sqlmock.NewRows([]string{"credits"}).AddRow(6))
	mock.ExpectCommit()

	r, err := CompleteRequest(context.Background(), "learner", "r1")

	require.NoError(t, err)
	assert.True(t, r.IsCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =====================
// 聊天 / 社区 / 图谱
// =====================

func TestSaveChatMessage_DefaultContent(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectExec("INSERT INTO messages").
		WithArgs(sqlmock.AnyArg(), "a", "b", "File Attachment", "https://cdn/x.png", "image/png", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO messages").
		WithArgs(sqlmock.AnyArg(), "a", "b", "Message", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	m, err := SaveChatMessage(context.Background(), "a", &models.OutgoingMessage{Recipient: "b", FileURL: "https://cdn/x.png", FileType: "image/png"})
	require.NoError(t, err)
	assert.Equal(t, "File Attachment", m.Content)

	m, err = SaveChatMessage(context.Background(), "a", &models.OutgoingMessage{Recipient: "b", Content: "  "})
	require.NoError(t, err)
	assert.Equal(t, "Message", m.Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveChatMessage_RequiresRecipient(t *testing.T) {
	_, _ = setupServices(t, Deps{})

	_, err := SaveChatMessage(context.Background(), "a", &models.OutgoingMessage{Content: "hi"})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpvoteAnswer_Duplicate(t *testing.T) {
	cfg, mock := setupServices(t, Deps{})
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT author_id FROM answers").WillReturnRows(sqlmock.NewRows([]string{"author_id"}).AddRow("author"))
	mock.ExpectExec("INSERT INTO answer_upvotes").WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := UpvoteAnswer(context.Background(), cfg, "voter", "a1")

	assert.ErrorIs(t, err, ErrAlreadyUpvoted)
	assert.Equal(t, models.CodeAlreadyUpvoted, ErrorCode(err))
}

func TestAnswerQuestion_UnknownQuestion(t *testing.T) {
	_, mock := setupServices(t, Deps{})
	mock.ExpectQuery("FROM users WHERE id").WillReturnRows(userRow("u1", "Alice", "a@x.io", "x", "[]", "", 5))
	mock.ExpectQuery("SELECT COUNT\\(1\\) FROM questions").WillReturnRows(sqlmock.NewRows([]string{"c"}).AddRow(0))

	_, err := AnswerQuestion(context.Background(), "u1", "q404", &ContentInput{Content: "Try the Go tour"})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, models.CodeNotFound, ErrorCode(err))
}

func TestCreateQuestion_EmptyContent(t *testing.T) {
	_, _ = setupServices(t, Deps{})

	_, err := CreateQuestion(context.Background(), "u1", &ContentInput{Content: "   "})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestKnowledgeGraph(t *testing.T) {
	profiles := []models.UserProfile{
		{ID: "alice", Username: "Alice_Code", Skills: []models.Skill{
			{Name: "React", Type: models.SkillTeach}, {Name: "Python", Type: models.SkillLearn}}},
		{ID: "bob", Username: "Bob_Builder", Skills: []models.Skill{
			{Name: "Python", Type: models.SkillTeach}, {Name: "React", Type: models.SkillLearn}}},
		{ID: "charlie", Username: "Charlie_Design", Skills: []models.Skill{
			{Name: "HTML", Type: models.SkillLearn}}},
		{ID: "dora", Username: "Dora", Skills: []models.Skill{
			{Name: "react", Type: models.SkillLearn}}},
	}

	g := knowledgeGraph(profiles)

	require.Len(t, g.Nodes, 4)
	assert.Equal(t, 1, g.Nodes[0].Group)
	assert.Equal(t, 2, g.Nodes[2].Group)
	// 名称大小写不同不算匹配
	assert.Equal(t, []models.GraphLink{{Source: "alice", Target: "bob", Value: 1}}, g.Links)
}

// =====================
// 上传
// =====================

func TestUploadFile(t *testing.T) {
	store := &memStore{}
	cfg, _ := setupServices(t, Deps{Files: store})

	res, err := UploadFile(context.Background(), cfg, "notes.PDF", "", 4, bytes.NewReader([]byte("%PDF")))

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", res.FileType)
	require.Len(t, store.keys, 1)
	assert.True(t, strings.HasPrefix(store.keys[0], "skillbarter_chat/"))
	assert.True(t, strings.HasSuffix(res.FileURL, ".pdf"))
}

func TestUploadFile_Rejects(t *testing.T) {
	cfg, _ := setupServices(t, Deps{Files: &memStore{}})

	_, err := UploadFile(context.Background(), cfg, "run.exe", "", 4, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = UploadFile(context.Background(), cfg, "big.mp4", "video/mp4", 2<<20, bytes.NewReader(nil))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestUploadFile_StoreErrors(t *testing.T) {
	cfg, _ := setupServices(t, Deps{})
	_, err := UploadFile(context.Background(), cfg, "a.png", "image/png", 1, bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, ErrStorageNotConfigured)
	assert.False(t, StorageConfigured())

	Setup(cfg, Deps{Files: &memStore{err: errors.New("403 AccessDenied")}})
	_, err = UploadFile(context.Background(), cfg, "a.png", "image/png", 1, bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, ErrUploadFailed)
	assert.Equal(t, models.CodeUploadError, ErrorCode(err))
}

// =====================
// embedding 补全
// =====================

func TestBackfillEmbeddings(t *testing.T) {
	cfg, mock := setupServices(t, Deps{Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "Figma") {
			return nil, errors.New("bad request")
		}
		return []float32{1}, nil
	})})
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery("WHERE embedding IS NULL").WithArgs(50).WillReturnRows(
		sqlmock.NewRows([]string{"id", "username", "bio", "skills"}).
			AddRow("alice", "Alice", "", `[{"name":"React","type":"teach"}]`).
			AddRow("bob", "Bob", "", `[{"name":"Python","type":"teach"}]`).
			AddRow("charlie", "Charlie", "", `[{"name":"Figma","type":"teach"}]`))
	mock.ExpectExec("UPDATE users SET embedding").WithArgs("[1]", "alice").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET embedding").WithArgs("[1]", "bob").WillReturnResult(sqlmock.NewResult(0, 1))

	ok, failed, err := BackfillEmbeddings(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfillEmbeddings_NoProvider(t *testing.T) {
	cfg, mock := setupServices(t, Deps{})

	ok, failed, err := BackfillEmbeddings(context.Background(), cfg)

	require.NoError(t, err)
	assert.Zero(t, ok+failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, models.CodeSuccess, ErrorCode(nil))
	assert.Equal(t, models.CodeAlreadyUpvoted, ErrorCode(ErrAlreadyUpvoted))
	assert.Equal(t, models.CodeNotFound, ErrorCode(repository.ErrNotFound))
	assert.Equal(t, models.CodeUnauthenticated, ErrorCode(ErrInvalidToken))
	assert.Equal(t, models.CodeDatabaseError, ErrorCode(errors.New("boom")))
}

// =====================
// 演示数据
// =====================

func TestSeedUsers(t *testing.T) {
	_, mock := setupServices(t, Deps{Embedder: embedFunc(func(ctx context.Context, text string) ([]float32, error) {
		return []float32{0.3}, nil
	})})
	seeds := DemoUsers()
	mock.ExpectExec("DELETE FROM users WHERE email IN").
		WithArgs("alice@example.com", "bob@example.com", "charlie@example.com").
		WillReturnResult(sqlmock.NewResult(0, 2))
	for range seeds {
		mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	}

	n, err := SeedUsers(context.Background(), seeds)

	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedUsers_RequiresEmail(t *testing.T) {
	_, mock := setupServices(t, Deps{})

	_, err := SeedUsers(context.Background(), []SeedUser{{Username: "NoMail"}})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadSeedFile(t *testing.T) {
	path := t.TempDir() + "/users.json"
	require.NoError(t, os.WriteFile(path, []byte(`[{"username":"Dora","email":"dora@example.com","skills":[{"name":"Go","type":"teach","level":3}],"credits":2}]`), 0o600))

	seeds, err := LoadSeedFile(path)

	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, models.SkillTeach, seeds[0].Skills[0].Type)

	require.NoError(t, os.WriteFile(path, []byte(`[{"skills":[{"name":"Go","type":"mentor"}]}]`), 0o600))
	_, err = LoadSeedFile(path)
	assert.Error(t, err)
}

// =====================
// 简介生成
// =====================

func TestLLMBioGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer llm-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Skills they can teach: Figma, UI/UX")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"finish_reason":"stop",
			"message":{"role":"assistant","content":"\"I design **clean** interfaces.\""}}],"usage":{"total_tokens":12}}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.LLM.APIKey = "llm-key"
	cfg.LLM.BaseURL = srv.URL + "/"
	gen := NewLLMBioGenerator(cfg)
	require.NotNil(t, gen)

	bio, err := gen.GenerateBio(context.Background(), []string{"Figma", "UI/UX"}, []string{"HTML"})

	require.NoError(t, err)
	assert.Equal(t, "I design clean interfaces.", bio)
}

func TestNewLLMBioGenerator_NoKey(t *testing.T) {
	assert.Nil(t, NewLLMBioGenerator(testConfig()))
}
