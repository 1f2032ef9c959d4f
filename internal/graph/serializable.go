package graph

// Serializable 可被通用发布器消费的图模型
//
// 两个方法都按拉取方式逐条返回记录，耗尽后返回 nil，
// 之后每次调用仍返回 nil。每个模型只被消费一次。
type Serializable interface {
	// NextNode 返回下一个节点记录，耗尽时返回 nil
	NextNode() *Node

	// NextRelation 返回下一个关系记录，耗尽时返回 nil
	NextRelation() *Relation
}
