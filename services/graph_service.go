package services

import (
	"context"

	"skill_barter/models"
	"skill_barter/repository"
)

// BuildKnowledgeGraph 构建用户之间的技能互补关系图
func BuildKnowledgeGraph(ctx context.Context) (*models.KnowledgeGraph, error) {
	profiles, err := repository.ListCandidateProfiles(ctx)
	if err != nil {
		return nil, err
	}
	return knowledgeGraph(profiles), nil
}

// knowledgeGraph 节点 group 1 为至少能教一项技能的用户，否则为 2
// u1 能教 u2 想学的（或反过来，技能名完全相同）时连一条边
func knowledgeGraph(profiles []models.UserProfile) *models.KnowledgeGraph {
	g := &models.KnowledgeGraph{
		Nodes: make([]models.GraphNode, 0, len(profiles)),
		Links: make([]models.GraphLink, 0),
	}

	teaches := make([]map[string]bool, len(profiles))
	learns := make([]map[string]bool, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		teaches[i] = toSet(p.TeachSkills())
		learns[i] = toSet(p.LearnSkills())

		group := 2
		if len(teaches[i]) > 0 {
			group = 1
		}
		g.Nodes = append(g.Nodes, models.GraphNode{ID: p.ID, Name: p.Username, Group: group})
	}

	for i := 0; i < len(profiles); i++ {
		for j := i + 1; j < len(profiles); j++ {
			if overlaps(teaches[i], learns[j]) || overlaps(teaches[j], learns[i]) {
				g.Links = append(g.Links, models.GraphLink{
					Source: profiles[i].ID,
					Target: profiles[j].ID,
					Value:  1,
				})
			}
		}
	}
	return g
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func overlaps(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}
