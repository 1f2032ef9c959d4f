package model

import "usage-graph/internal/graph"

// 用户节点
const (
	UserNodeLabel = "User"

	UserManagerRelationType = "MANAGE_BY"
	ManagerUserRelationType = "MANAGE"

	userActiveProperty = "is_active" + graph.UnquotedSuffix
)

// User 用户实体模型
type User struct {
	Email        string
	FirstName    string
	LastName     string
	FullName     string
	TeamName     string
	ManagerEmail string
	IsActive     bool

	nodes     *graph.Cursor[*graph.Node]
	relations *graph.Cursor[*graph.Relation]
}

// NewUser 创建只有邮箱的活跃用户
func NewUser(email string) *User {
	return &User{Email: email, IsActive: true}
}

// CreateNodes 生成用户节点
func (u *User) CreateNodes() []*graph.Node {
	return []*graph.Node{{
		Key:   UserKey(u.Email),
		Label: UserNodeLabel,
		Properties: map[string]any{
			"email":            u.Email,
			"first_name":       u.FirstName,
			"last_name":        u.LastName,
			"full_name":        u.FullName,
			"team_name":        u.TeamName,
			userActiveProperty: u.IsActive,
		},
	}}
}

// CreateRelations 生成用户与上级之间的关系
func (u *User) CreateRelations() []*graph.Relation {
	if u.ManagerEmail == "" {
		return nil
	}
	return []*graph.Relation{{
		StartLabel:  UserNodeLabel,
		EndLabel:    UserNodeLabel,
		StartKey:    UserKey(u.Email),
		EndKey:      UserKey(u.ManagerEmail),
		Type:        UserManagerRelationType,
		ReverseType: ManagerUserRelationType,
	}}
}

// NextNode 实现 graph.Serializable
func (u *User) NextNode() *graph.Node {
	if u.nodes == nil {
		u.nodes = graph.NewCursor(u.CreateNodes())
	}
	n, _ := u.nodes.Next()
	return n
}

// NextRelation 实现 graph.Serializable
func (u *User) NextRelation() *graph.Relation {
	if u.relations == nil {
		u.relations = graph.NewCursor(u.CreateRelations())
	}
	r, _ := u.relations.Next()
	return r
}

func (u *User) String() string {
	return "User(" + u.Email + ")"
}
