package commenttree

import (
	"sort"

	"github.com/danuandrian/commentarium/internal/model"
	"github.com/google/uuid"
)

// Strategy selects how sibling groups are ordered. The values match the sort
// options exposed in the UI dropdown.
type Strategy string

const (
	StrategyNewest  Strategy = "newest"  // descending by creation time
	StrategyOldest  Strategy = "oldest"  // ascending by creation time
	StrategyPopular Strategy = "popular" // descending by upvotes
	StrategyReplies Strategy = "replies" // descending by total reply count
)

func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyNewest, StrategyOldest, StrategyPopular, StrategyReplies:
		return Strategy(s), true
	}
	return "", false
}

// Node wraps one flat comment record for a single render cycle. It is never
// persisted; every read rebuilds the forest from the flat record set.
type Node struct {
	model.CommentDetail
	ReplyCount int     `json:"replyCount"`
	CanEdit    bool    `json:"canEdit"`
	CanDelete  bool    `json:"canDelete"`
	CanUpvote  bool    `json:"canUpvote"`
	Children   []*Node `json:"children"`
}

// Build assembles a flat, order-independent record set into a forest. It is a
// pure two-pass map/attach: records with a nil parent become roots, records
// whose parent id resolves are appended to that parent's children, and records
// with a dangling parent id are left unattached so they never show up under
// any root. Because nothing here recurses, a parent cycle in corrupt data
// cannot hang the build; the cyclic nodes are simply unreachable.
func Build(records []model.CommentDetail) []*Node {
	nodes := make(map[uuid.UUID]*Node, len(records))
	for _, record := range records {
		nodes[record.Id] = &Node{CommentDetail: record, Children: []*Node{}}
	}

	roots := []*Node{}
	for _, record := range records {
		node := nodes[record.Id]
		if record.ParentId == nil {
			roots = append(roots, node)
			continue
		}

		parent, ok := nodes[*record.ParentId]
		if !ok {
			// orphaned record, excluded from the forest
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return roots
}

// Annotate computes ReplyCount for every node reachable from the forest roots:
// the total number of descendants, not just direct children.
func Annotate(forest []*Node) {
	for _, root := range forest {
		annotateNode(root)
	}
}

func annotateNode(node *Node) int {
	total := 0
	for _, child := range node.Children {
		total += 1 + annotateNode(child)
	}
	node.ReplyCount = total
	return total
}

// Sort reorders every sibling group in place with the same strategy at every
// level. The sort is stable, so ties keep their prior relative order, and the
// tree shape is never changed. StrategyReplies assumes Annotate already ran.
func Sort(forest []*Node, strategy Strategy) {
	sortSiblings(forest, strategy)
	for _, root := range forest {
		Sort(root.Children, strategy)
	}
}

func sortSiblings(group []*Node, strategy Strategy) {
	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]
		switch strategy {
		case StrategyOldest:
			return a.CreateDatetime.Before(b.CreateDatetime)
		case StrategyPopular:
			return a.UpvoteCount > b.UpvoteCount
		case StrategyReplies:
			return a.ReplyCount > b.ReplyCount
		default:
			return a.CreateDatetime.After(b.CreateDatetime)
		}
	})
}

// Viewer identifies the acting user for permission checks. A nil viewer means
// the request is unauthenticated.
type Viewer struct {
	Id      uuid.UUID
	IsAdmin bool
}

type Actions struct {
	CanEdit   bool
	CanDelete bool
	CanUpvote bool
}

// Permissions decides which actions a viewer may take on a comment written by
// authorId. Pure and side-effect free; evaluated per node at render time.
func Permissions(viewer *Viewer, authorId uuid.UUID) Actions {
	if viewer == nil {
		return Actions{}
	}

	isAuthor := viewer.Id == authorId
	return Actions{
		CanEdit:   isAuthor,
		CanDelete: isAuthor || viewer.IsAdmin,
		CanUpvote: true,
	}
}

// ApplyPermissions stamps the viewer's allowed actions on every node in the
// forest.
func ApplyPermissions(forest []*Node, viewer *Viewer) {
	for _, node := range forest {
		actions := Permissions(viewer, node.Author.Id)
		node.CanEdit = actions.CanEdit
		node.CanDelete = actions.CanDelete
		node.CanUpvote = actions.CanUpvote
		ApplyPermissions(node.Children, viewer)
	}
}
