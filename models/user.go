package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SkillType 技能类型：可教授 / 想学习
type SkillType string

const (
	SkillTeach SkillType = "teach"
	SkillLearn SkillType = "learn"
)

// Valid 判断技能类型是否合法
func (t SkillType) Valid() bool {
	return t == SkillTeach || t == SkillLearn
}

// UnmarshalJSON 拒绝未知的技能类型
func (t *SkillType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	st := SkillType(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return fmt.Errorf("invalid skill type %q", s)
	}
	*t = st
	return nil
}

type Skill struct {
	Name  string    `json:"name" validate:"required,max=64"`
	Type  SkillType `json:"type" validate:"required,oneof=teach learn"`
	Level int       `json:"level" validate:"omitempty,min=1,max=5"`
}

// UserProfile 参与匹配的用户资料（只读）
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	Skills    []Skill   `json:"skills"`
	Embedding []float32 `json:"-"` // 语义向量，不对外输出
}

// TeachSkills 返回可教授的技能名
func (p *UserProfile) TeachSkills() []string {
	return p.skillNames(SkillTeach)
}

// LearnSkills 返回想学习的技能名
func (p *UserProfile) LearnSkills() []string {
	return p.skillNames(SkillLearn)
}

func (p *UserProfile) skillNames(t SkillType) []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		if s.Type == t {
			names = append(names, s.Name)
		}
	}
	return names
}

// User 完整账户信息
type User struct {
	UserProfile
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Gender       string    `json:"gender,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Credits      int       `json:"credits"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
