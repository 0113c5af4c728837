package models

import "time"

// AuthorRef 只带用户名的作者引用
type AuthorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Reply struct {
	ID        string    `json:"id"`
	Author    AuthorRef `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

type Answer struct {
	ID         string    `json:"id"`
	QuestionID string    `json:"question"`
	Author     AuthorRef `json:"author"`
	Content    string    `json:"content"`
	UpvotedBy  []string  `json:"upvotedBy"`
	Replies    []Reply   `json:"replies"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Question struct {
	ID        string    `json:"id"`
	Author    AuthorRef `json:"author"`
	Content   string    `json:"content"`
	Answers   []Answer  `json:"answers"`
	CreatedAt time.Time `json:"createdAt"`
}

// GraphNode 知识图谱节点，Group 1 为老师，2 为学习者
type GraphNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group int    `json:"group"`
}

type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

type KnowledgeGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}
