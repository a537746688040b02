package commenttree

import (
	"testing"
	"time"

	"github.com/danuandrian/commentarium/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func record(id uuid.UUID, parent *uuid.UUID, minutes int, upvotes int) model.CommentDetail {
	return model.CommentDetail{
		Id:             id,
		PostId:         uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		ParentId:       parent,
		Author:         model.CommentAuthor{Id: uuid.New(), Name: "someone"},
		Text:           "text",
		UpvoteCount:    upvotes,
		CreateDatetime: baseTime.Add(time.Duration(minutes) * time.Minute),
	}
}

func ids(nodes []*Node) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Id)
	}
	return out
}

func TestBuildShape(t *testing.T) {
	root1 := uuid.New()
	root2 := uuid.New()
	child := uuid.New()
	grandchild := uuid.New()

	forest := Build([]model.CommentDetail{
		record(grandchild, &child, 3, 0), // input order must not matter
		record(root1, nil, 0, 0),
		record(child, &root1, 1, 0),
		record(root2, nil, 2, 0),
	})

	require.Len(t, forest, 2)
	assert.Equal(t, []uuid.UUID{root1, root2}, ids(forest))

	require.Len(t, forest[0].Children, 1)
	assert.Equal(t, child, forest[0].Children[0].Id)
	require.Len(t, forest[0].Children[0].Children, 1)
	assert.Equal(t, grandchild, forest[0].Children[0].Children[0].Id)
	assert.Empty(t, forest[1].Children)

	// every child really claims its parent
	require.NotNil(t, forest[0].Children[0].ParentId)
	assert.Equal(t, forest[0].Id, *forest[0].Children[0].ParentId)
	assert.Nil(t, forest[0].ParentId)
	assert.Nil(t, forest[1].ParentId)
}

func TestBuildDropsOrphans(t *testing.T) {
	root := uuid.New()
	orphan := uuid.New()
	orphanChild := uuid.New()
	missing := uuid.New()

	forest := Build([]model.CommentDetail{
		record(root, nil, 0, 0),
		record(orphan, &missing, 1, 0),
		record(orphanChild, &orphan, 2, 0),
	})

	require.Len(t, forest, 1)
	assert.Equal(t, root, forest[0].Id)
	assert.Empty(t, forest[0].Children)

	// the orphan's own child attached to it, but the whole subtree is
	// unreachable from any root
	assert.NotContains(t, collectIds(forest), orphan)
	assert.NotContains(t, collectIds(forest), orphanChild)
}

func TestBuildSurvivesParentCycle(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	root := uuid.New()

	done := make(chan []*Node, 1)
	go func() {
		done <- Build([]model.CommentDetail{
			record(root, nil, 0, 0),
			record(a, &b, 1, 0),
			record(b, &a, 2, 0),
		})
	}()

	select {
	case forest := <-done:
		require.Len(t, forest, 1)
		assert.Equal(t, root, forest[0].Id)
		assert.NotContains(t, collectIds(forest), a)
		assert.NotContains(t, collectIds(forest), b)
	case <-time.After(2 * time.Second):
		t.Fatal("build did not terminate on cyclic input")
	}
}

func TestBuildEmptyAndIdempotent(t *testing.T) {
	assert.Empty(t, Build(nil))

	root := uuid.New()
	child1 := uuid.New()
	child2 := uuid.New()
	records := []model.CommentDetail{
		record(root, nil, 0, 0),
		record(child1, &root, 1, 0),
		record(child2, &root, 2, 0),
	}

	first := Build(records)
	second := Build(records)
	Annotate(first)
	Annotate(second)
	assert.Equal(t, first, second)
}

func collectIds(forest []*Node) []uuid.UUID {
	var out []uuid.UUID
	for _, node := range forest {
		out = append(out, node.Id)
		out = append(out, collectIds(node.Children)...)
	}
	return out
}

func TestAnnotateCountsAllDescendants(t *testing.T) {
	root := uuid.New()
	childA := uuid.New()
	childB := uuid.New()
	grandchild := uuid.New()

	forest := Build([]model.CommentDetail{
		record(root, nil, 0, 0),
		record(childA, &root, 1, 0),
		record(childB, &root, 2, 0),
		record(grandchild, &childA, 3, 0),
	})
	Annotate(forest)

	require.Len(t, forest, 1)
	assert.Equal(t, 3, forest[0].ReplyCount)
	assert.Equal(t, 1, forest[0].Children[0].ReplyCount)
	assert.Equal(t, 0, forest[0].Children[1].ReplyCount)
	assert.Equal(t, 0, forest[0].Children[0].Children[0].ReplyCount)
}

func TestSortAppliesAtEveryLevel(t *testing.T) {
	root := uuid.New()
	older := uuid.New()
	newer := uuid.New()
	olderGrandchild := uuid.New()
	newerGrandchild := uuid.New()

	forest := Build([]model.CommentDetail{
		record(root, nil, 0, 0),
		record(older, &root, 1, 0),
		record(newer, &root, 5, 0),
		record(olderGrandchild, &older, 2, 0),
		record(newerGrandchild, &older, 3, 0),
	})

	Sort(forest, StrategyNewest)
	assert.Equal(t, []uuid.UUID{newer, older}, ids(forest[0].Children))
	olderNode := forest[0].Children[1]
	assert.Equal(t, []uuid.UUID{newerGrandchild, olderGrandchild}, ids(olderNode.Children))

	Sort(forest, StrategyOldest)
	assert.Equal(t, []uuid.UUID{older, newer}, ids(forest[0].Children))
	olderNode = forest[0].Children[0]
	assert.Equal(t, []uuid.UUID{olderGrandchild, newerGrandchild}, ids(olderNode.Children))
}

func TestSortOldestIsNonDecreasing(t *testing.T) {
	records := []model.CommentDetail{}
	for _, minutes := range []int{7, 2, 9, 2, 4} {
		records = append(records, record(uuid.New(), nil, minutes, 0))
	}

	forest := Build(records)
	Sort(forest, StrategyOldest)

	for i := 1; i < len(forest); i++ {
		assert.False(t, forest[i].CreateDatetime.Before(forest[i-1].CreateDatetime))
	}
}

func TestSortByUpvotesAndReplies(t *testing.T) {
	quiet := uuid.New()
	popular := uuid.New()
	busy := uuid.New()
	reply1 := uuid.New()
	reply2 := uuid.New()

	forest := Build([]model.CommentDetail{
		record(quiet, nil, 0, 1),
		record(popular, nil, 1, 9),
		record(busy, nil, 2, 3),
		record(reply1, &busy, 3, 0),
		record(reply2, &busy, 4, 0),
	})
	Annotate(forest)

	Sort(forest, StrategyPopular)
	assert.Equal(t, []uuid.UUID{popular, busy, quiet}, ids(forest))

	Sort(forest, StrategyReplies)
	assert.Equal(t, busy, forest[0].Id)
}

func TestSortIsStableOnTies(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	third := uuid.New()

	// identical upvote counts, insertion order must survive
	forest := Build([]model.CommentDetail{
		record(first, nil, 0, 5),
		record(second, nil, 1, 5),
		record(third, nil, 2, 5),
	})
	Sort(forest, StrategyPopular)

	assert.Equal(t, []uuid.UUID{first, second, third}, ids(forest))
}

func TestSortNeverChangesShape(t *testing.T) {
	root := uuid.New()
	child := uuid.New()
	grandchild := uuid.New()

	forest := Build([]model.CommentDetail{
		record(root, nil, 0, 0),
		record(child, &root, 1, 4),
		record(grandchild, &child, 2, 8),
	})
	Sort(forest, StrategyPopular)

	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 1)
	require.Len(t, forest[0].Children[0].Children, 1)
	assert.Equal(t, grandchild, forest[0].Children[0].Children[0].Id)
}

func TestParseStrategy(t *testing.T) {
	for _, valid := range []string{"newest", "oldest", "popular", "replies"} {
		strategy, ok := ParseStrategy(valid)
		assert.True(t, ok)
		assert.Equal(t, Strategy(valid), strategy)
	}

	_, ok := ParseStrategy("trending")
	assert.False(t, ok)
	_, ok = ParseStrategy("")
	assert.False(t, ok)
}

func TestPermissions(t *testing.T) {
	author := uuid.New()
	stranger := uuid.New()
	admin := uuid.New()

	t.Run("anonymous gets nothing", func(t *testing.T) {
		assert.Equal(t, Actions{}, Permissions(nil, author))
	})

	t.Run("author can edit and delete", func(t *testing.T) {
		actions := Permissions(&Viewer{Id: author}, author)
		assert.True(t, actions.CanEdit)
		assert.True(t, actions.CanDelete)
		assert.True(t, actions.CanUpvote)
	})

	t.Run("stranger can only upvote", func(t *testing.T) {
		actions := Permissions(&Viewer{Id: stranger}, author)
		assert.False(t, actions.CanEdit)
		assert.False(t, actions.CanDelete)
		assert.True(t, actions.CanUpvote)
	})

	t.Run("admin can delete but not edit", func(t *testing.T) {
		actions := Permissions(&Viewer{Id: admin, IsAdmin: true}, author)
		assert.False(t, actions.CanEdit)
		assert.True(t, actions.CanDelete)
		assert.True(t, actions.CanUpvote)
	})
}

func TestApplyPermissionsWalksWholeForest(t *testing.T) {
	mine := uuid.New()
	theirs := uuid.New()
	viewer := &Viewer{Id: uuid.New()}

	myComment := record(mine, nil, 0, 0)
	myComment.Author = model.CommentAuthor{Id: viewer.Id, Name: "me"}
	theirReply := record(theirs, &mine, 1, 0)

	forest := Build([]model.CommentDetail{myComment, theirReply})
	ApplyPermissions(forest, viewer)

	assert.True(t, forest[0].CanEdit)
	assert.True(t, forest[0].CanDelete)
	assert.False(t, forest[0].Children[0].CanEdit)
	assert.False(t, forest[0].Children[0].CanDelete)
	assert.True(t, forest[0].Children[0].CanUpvote)
}

// End to end over one realistic record set: a root with two replies, a record
// pointing at a parent that does not exist, and an upvote-ordered sibling group.
func TestScenarioForest(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()
	id3 := uuid.New()
	id4 := uuid.New()
	missing := uuid.New()

	root := record(id1, nil, 0, 5)
	replyA := record(id2, &id1, 1, 1)
	replyB := record(id3, &id1, 2, 9)
	orphan := record(id4, &missing, 3, 0)

	forest := Build([]model.CommentDetail{root, replyA, replyB, orphan})
	Annotate(forest)

	require.Len(t, forest, 1)
	assert.Equal(t, id1, forest[0].Id)
	assert.Equal(t, []uuid.UUID{id2, id3}, ids(forest[0].Children))
	assert.Equal(t, 2, forest[0].ReplyCount)
	assert.NotContains(t, collectIds(forest), id4)

	Sort(forest, StrategyPopular)
	assert.Equal(t, []uuid.UUID{id3, id2}, ids(forest[0].Children))
}
