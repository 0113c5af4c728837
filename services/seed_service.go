package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skill_barter/logger"
	"skill_barter/models"
	"skill_barter/repository"
)

// SeedUser 演示数据中的一个用户
type SeedUser struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Bio      string         `json:"bio"`
	Skills   []models.Skill `json:"skills"`
	Credits  int            `json:"credits"`
}

const demoPassword = "hashedpassword123"

// DemoUsers 内置的三个演示用户
func DemoUsers() []SeedUser {
	return []SeedUser{
		{
			Username: "Alice_Code",
			Email:    "alice@example.com",
			Password: demoPassword,
			Bio:      "Full stack developer loving generic UI/UX.",
			Skills: []models.Skill{
				{Name: "React", Type: models.SkillTeach, Level: 5},
				{Name: "Node.js", Type: models.SkillTeach, Level: 4},
				{Name: "Python", Type: models.SkillLearn, Level: 1},
			},
			Credits: 10,
		},
		{
			Username: "Bob_Builder",
			Email:    "bob@example.com",
			Password: demoPassword,
			Bio:      "Civil engineer turned Python enthusiast.",
			Skills: []models.Skill{
				{Name: "Python", Type: models.SkillTeach, Level: 2},
				{Name: "AutoCAD", Type: models.SkillTeach, Level: 5},
				{Name: "React", Type: models.SkillLearn, Level: 1},
			},
			Credits: 5,
		},
		{
			Username: "Charlie_Design",
			Email:    "charlie@example.com",
			Password: demoPassword,
			Bio:      "I teach design principles and want to learn coding.",
			Skills: []models.Skill{
				{Name: "Figma", Type: models.SkillTeach, Level: 5},
				{Name: "UI/UX", Type: models.SkillTeach, Level: 5},
				{Name: "HTML", Type: models.SkillLearn, Level: 2},
			},
			Credits: 8,
		},
	}
}

// LoadSeedFile 从 JSON 文件读取用户数组
func LoadSeedFile(path string) ([]SeedUser, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seeds []SeedUser
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return seeds, nil
}

// SeedUsers 删除同邮箱的旧用户后重新写入，有 embedding 提供方时一并计算向量
func SeedUsers(ctx context.Context, seeds []SeedUser) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}

	emails := make([]string, 0, len(seeds))
	for i := range seeds {
		seeds[i].Email = strings.ToLower(strings.TrimSpace(seeds[i].Email))
		if seeds[i].Email == "" || seeds[i].Username == "" {
			return 0, fmt.Errorf("%w: seed user %d needs username and email", ErrInvalidInput, i)
		}
		emails = append(emails, seeds[i].Email)
	}

	removed, err := repository.DeleteUsersByEmail(ctx, emails)
	if err != nil {
		return 0, fmt.Errorf("delete existing users: %w", err)
	}
	logger.Info("Removed existing seed users", "count", removed)

	created := 0
	for _, s := range seeds {
		password := s.Password
		if password == "" {
			password = demoPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
		if err != nil {
			return created, fmt.Errorf("hash password for %s: %w", s.Email, err)
		}

		u := &models.User{
			UserProfile: models.UserProfile{
				ID:       uuid.NewString(),
				Username: s.Username,
				Bio:      s.Bio,
				Skills:   s.Skills,
			},
			Email:        s.Email,
			PasswordHash: string(hash),
			Credits:      s.Credits,
		}

		if vec, err := EmbedProfile(ctx, &u.UserProfile, "seed"); err != nil {
			if !errors.Is(err, errNoEmbedder) {
				logger.Warn("Embedding generation failed", "email", s.Email, "error", err)
			}
		} else {
			u.Embedding = vec
		}

		if err := repository.CreateUser(ctx, u); err != nil {
			return created, fmt.Errorf("create %s: %w", s.Email, err)
		}
		created++
		logger.Info("Seeded user", "username", u.Username, "has_embedding", len(u.Embedding) > 0)
	}
	return created, nil
}
