package graph

// 关系记录的线上字段名
const (
	RelationStartLabel  = "START_LABEL"
	RelationEndLabel    = "END_LABEL"
	RelationStartKey    = "START_KEY"
	RelationEndKey      = "END_KEY"
	RelationType        = "TYPE"
	RelationReverseType = "REVERSE_TYPE"
)

// Relation 图关系记录，同时携带正向与反向类型
type Relation struct {
	StartLabel  string         `json:"start_label"`
	EndLabel    string         `json:"end_label"`
	StartKey    string         `json:"start_key"`
	EndKey      string         `json:"end_key"`
	Type        string         `json:"type"`
	ReverseType string         `json:"reverse_type"`
	Properties  map[string]any `json:"properties,omitempty"`
}

// Fields 返回关系的线上字段映射
func (r *Relation) Fields() map[string]any {
	fields := make(map[string]any, len(r.Properties)+6)
	for k, v := range r.Properties {
		fields[k] = v
	}
	fields[RelationStartLabel] = r.StartLabel
	fields[RelationEndLabel] = r.EndLabel
	fields[RelationStartKey] = r.StartKey
	fields[RelationEndKey] = r.EndKey
	fields[RelationType] = r.Type
	fields[RelationReverseType] = r.ReverseType
	return fields
}

// PropertyNames 返回排序后的属性名
func (r *Relation) PropertyNames() []string {
	return sortedKeys(r.Properties)
}
