package comment

// Node is a comment with its nested replies. Nodes are built fresh by
// BuildTree and are never persisted.
type Node struct {
	Comment
	Replies []*Node `json:"replies"`
}

// BuildTree arranges a flat list of comments into reply threads.
//
// Comments whose parent is missing from the list, is the comment itself, or
// sits on a parent cycle are promoted to the top level, so every comment in
// the input appears exactly once in the result. Siblings keep their input
// order. nil entries are skipped. The input is not modified.
func BuildTree(comments []*Comment) []*Node {
	nodes := make([]*Node, 0, len(comments))
	index := make(map[string]int, len(comments))
	for _, c := range comments {
		if c == nil {
			continue
		}
		if _, dup := index[c.ID]; !dup {
			index[c.ID] = len(nodes)
		}
		nodes = append(nodes, &Node{Comment: *c, Replies: []*Node{}})
	}

	parents := parentIndexes(nodes, index)

	roots := []*Node{}
	for i, n := range nodes {
		if p := parents[i]; p >= 0 {
			nodes[p].Replies = append(nodes[p].Replies, n)
			continue
		}
		roots = append(roots, n)
	}

	return roots
}

// parentIndexes returns, for each node, the index of the node it attaches
// to, or -1 for the top level.
func parentIndexes(nodes []*Node, index map[string]int) []int {
	parents := make([]int, len(nodes))
	for i, n := range nodes {
		parents[i] = -1
		if n.ParentID == nil {
			continue
		}
		if p, ok := index[*n.ParentID]; ok && p != i {
			parents[i] = p
		}
	}

	// Each node has at most one parent, so a walk up from any node meets at
	// most one cycle. Cut it at the cycle member that came first in the input.
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(nodes))
	for i := range nodes {
		var path []int
		cur := i
		for cur >= 0 && state[cur] == unvisited {
			state[cur] = visiting
			path = append(path, cur)
			cur = parents[cur]
		}

		if cur >= 0 && state[cur] == visiting {
			earliest := cur
			for k := len(path) - 1; path[k] != cur; k-- {
				if path[k] < earliest {
					earliest = path[k]
				}
			}
			parents[earliest] = -1
		}

		for _, p := range path {
			state[p] = done
		}
	}

	return parents
}

// CountNodes returns the number of comments in a forest.
func CountNodes(nodes []*Node) int {
	n := 0
	for _, node := range nodes {
		n += 1 + CountNodes(node.Replies)
	}
	return n
}
