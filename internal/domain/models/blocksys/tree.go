package blocksys

// TreeNode is one node of the derived document hierarchy. It is rebuilt
// from the flat document list on every change and never persisted.
type TreeNode struct {
	Document Document    `json:"document"`
	Children []*TreeNode `json:"children"`
	Depth    int         `json:"depth"`
}
