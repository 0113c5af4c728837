package models

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterType(t *testing.T) {
	cases := []struct {
		in      string
		want    FilterType
		wantErr bool
	}{
		{"", FilterSkill, false},
		{"skill", FilterSkill, false},
		{" Name ", FilterName, false},
		{"email", FilterSkill, true},
	}
	for _, tc := range cases {
		got, err := ParseFilterType(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
		} else {
			assert.NoError(t, err, tc.in)
		}
		assert.Equal(t, tc.want, got, tc.in)
	}
	assert.Equal(t, "name", FilterName.String())
	assert.Equal(t, "skill", FilterType(42).String())
}

func TestSkillTypeUnmarshal(t *testing.T) {
	var s Skill
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Go","type":"TEACH","level":3}`), &s))
	assert.Equal(t, SkillTeach, s.Type)

	err := json.Unmarshal([]byte(`{"name":"Go","type":"mentor"}`), &s)
	assert.Error(t, err)
}

func TestScoredResultJSONIsFlat(t *testing.T) {
	r := ScoredResult{
		UserProfile: UserProfile{
			ID:        "u1",
			Username:  "Alice",
			Skills:    []Skill{{Name: "React", Type: SkillTeach, Level: 5}},
			Embedding: []float32{0.1, 0.2},
		},
		Score: 0.5,
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "Alice", out["username"])
	assert.Equal(t, 0.5, out["score"])
	assert.NotContains(t, out, "embedding")
}

func TestProfileSkillNames(t *testing.T) {
	p := UserProfile{Skills: []Skill{
		{Name: "Python", Type: SkillTeach},
		{Name: "React", Type: SkillLearn},
		{Name: "AutoCAD", Type: SkillTeach},
	}}
	assert.Equal(t, []string{"Python", "AutoCAD"}, p.TeachSkills())
	assert.Equal(t, []string{"React"}, p.LearnSkills())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(CodeSuccess))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(CodeInsufficientCredits))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeDatabaseError))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(9999))
}
