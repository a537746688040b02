package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/danuandrian/commentarium/internal/commenttree"
	"github.com/danuandrian/commentarium/internal/constant"
	"github.com/danuandrian/commentarium/internal/model"
	"github.com/google/uuid"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCommentStore keeps flat records in memory, mimicking the store the
// coordinator mutates. Authors all render with the same placeholder profile.
type fakeCommentStore struct {
	records map[uuid.UUID]model.Comment
	order   []uuid.UUID
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{records: map[uuid.UUID]model.Comment{}}
}

func (s *fakeCommentStore) ListByPost(_ context.Context, postId uuid.UUID) ([]model.CommentDetail, error) {
	out := []model.CommentDetail{}
	for _, id := range s.order {
		record, ok := s.records[id]
		if !ok || record.PostId != postId {
			continue
		}
		out = append(out, s.toDetail(record))
	}
	return out, nil
}

func (s *fakeCommentStore) GetComment(_ context.Context, commentId uuid.UUID) (model.Comment, error) {
	record, ok := s.records[commentId]
	if !ok {
		return model.Comment{}, &model.NotFoundError{Code: constant.ERR_NOT_FOUND_ERROR, Message: "Comment not found", Param: "commentId"}
	}
	return record, nil
}

func (s *fakeCommentStore) GetCommentDetail(ctx context.Context, commentId uuid.UUID) (model.CommentDetail, error) {
	record, err := s.GetComment(ctx, commentId)
	if err != nil {
		return model.CommentDetail{}, err
	}
	return s.toDetail(record), nil
}

func (s *fakeCommentStore) CreateComment(_ context.Context, comment model.Comment) error {
	s.records[comment.Id] = comment
	s.order = append(s.order, comment.Id)
	return nil
}

func (s *fakeCommentStore) UpdateCommentText(ctx context.Context, commentId uuid.UUID, text string, updateDatetime time.Time) error {
	record, err := s.GetComment(ctx, commentId)
	if err != nil {
		return err
	}
	record.Text = text
	record.Edited = true
	record.UpdateDatetime = updateDatetime
	s.records[commentId] = record
	return nil
}

func (s *fakeCommentStore) DeleteComment(ctx context.Context, commentId uuid.UUID) error {
	_, err := s.GetComment(ctx, commentId)
	if err != nil {
		return err
	}
	delete(s.records, commentId)
	return nil
}

func (s *fakeCommentStore) IncrementUpvote(ctx context.Context, commentId uuid.UUID) error {
	record, err := s.GetComment(ctx, commentId)
	if err != nil {
		return err
	}
	record.UpvoteCount++
	s.records[commentId] = record
	return nil
}

func (s *fakeCommentStore) toDetail(record model.Comment) model.CommentDetail {
	return model.CommentDetail{
		Id:             record.Id,
		PostId:         record.PostId,
		ParentId:       record.ParentId,
		Author:         model.CommentAuthor{Id: record.AuthorId, Name: "tester"},
		Text:           record.Text,
		UpvoteCount:    record.UpvoteCount,
		Edited:         record.Edited,
		CreateDatetime: record.CreateDatetime,
	}
}

type fakePostChecker struct {
	existing map[uuid.UUID]bool
}

func (c *fakePostChecker) CheckPostExists(_ context.Context, postId uuid.UUID) (int, error) {
	if c.existing[postId] {
		return 1, nil
	}
	return 0, nil
}

func newTestCommentUsecase(postId uuid.UUID) (*CommentUsecase, *fakeCommentStore) {
	store := newFakeCommentStore()
	checker := &fakePostChecker{existing: map[uuid.UUID]bool{postId: true}}
	return NewCommentUsecase(store, checker, zap.NewNop(), koanf.New(".")), store
}

func TestCreateComment(t *testing.T) {
	ctx := context.Background()
	postId := uuid.New()
	authorId := uuid.New()
	usecase, store := newTestCommentUsecase(postId)

	t.Run("empty text is rejected", func(t *testing.T) {
		var validationErr *model.ValidationError
		_, err := usecase.CreateComment(ctx, postId, authorId, model.CommentCreateRequest{Text: ""})
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("unknown post is rejected", func(t *testing.T) {
		var notFoundErr *model.NotFoundError
		_, err := usecase.CreateComment(ctx, uuid.New(), authorId, model.CommentCreateRequest{Text: "hi"})
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("top level comment", func(t *testing.T) {
		detail, err := usecase.CreateComment(ctx, postId, authorId, model.CommentCreateRequest{Text: "first!"})
		require.NoError(t, err)
		assert.Equal(t, "first!", detail.Text)
		assert.Nil(t, detail.ParentId)
		assert.False(t, detail.Edited)
		assert.Zero(t, detail.UpvoteCount)
	})

	t.Run("dangling parent is accepted", func(t *testing.T) {
		missing := uuid.New().String()
		detail, err := usecase.CreateComment(ctx, postId, authorId, model.CommentCreateRequest{Text: "reply", ParentId: &missing})
		require.NoError(t, err)
		require.NotNil(t, detail.ParentId)

		// the record exists but the next render drops it
		forest, err := usecase.GetCommentForest(ctx, postId, nil, "")
		require.NoError(t, err)
		for _, node := range forest {
			assert.NotEqual(t, detail.Id, node.Id)
		}
		_, ok := store.records[detail.Id]
		assert.True(t, ok)
	})

	t.Run("malformed parent id is rejected", func(t *testing.T) {
		bad := "not-a-uuid"
		var validationErr *model.ValidationError
		_, err := usecase.CreateComment(ctx, postId, authorId, model.CommentCreateRequest{Text: "x", ParentId: &bad})
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestUpdateComment(t *testing.T) {
	ctx := context.Background()
	postId := uuid.New()
	author := uuid.New()
	stranger := uuid.New()
	usecase, _ := newTestCommentUsecase(postId)

	created, err := usecase.CreateComment(ctx, postId, author, model.CommentCreateRequest{Text: "original"})
	require.NoError(t, err)

	t.Run("missing comment", func(t *testing.T) {
		var notFoundErr *model.NotFoundError
		_, err := usecase.UpdateComment(ctx, uuid.New(), author, model.CommentUpdateRequest{Text: "new"})
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		var forbiddenErr *model.ForbiddenError
		_, err := usecase.UpdateComment(ctx, created.Id, stranger, model.CommentUpdateRequest{Text: "hijack"})
		require.ErrorAs(t, err, &forbiddenErr)
	})

	t.Run("empty text is rejected", func(t *testing.T) {
		var validationErr *model.ValidationError
		_, err := usecase.UpdateComment(ctx, created.Id, author, model.CommentUpdateRequest{Text: ""})
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("author edit sets the sticky edited flag", func(t *testing.T) {
		updated, err := usecase.UpdateComment(ctx, created.Id, author, model.CommentUpdateRequest{Text: "fixed typo"})
		require.NoError(t, err)
		assert.Equal(t, "fixed typo", updated.Text)
		assert.True(t, updated.Edited)

		again, err := usecase.UpdateComment(ctx, created.Id, author, model.CommentUpdateRequest{Text: "fixed again"})
		require.NoError(t, err)
		assert.True(t, again.Edited)
	})
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()
	postId := uuid.New()
	author := uuid.New()
	stranger := uuid.New()
	admin := uuid.New()
	usecase, _ := newTestCommentUsecase(postId)

	t.Run("missing comment", func(t *testing.T) {
		var notFoundErr *model.NotFoundError
		err := usecase.DeleteComment(ctx, uuid.New(), author, false)
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		created, err := usecase.CreateComment(ctx, postId, author, model.CommentCreateRequest{Text: "keep me"})
		require.NoError(t, err)

		var forbiddenErr *model.ForbiddenError
		err = usecase.DeleteComment(ctx, created.Id, stranger, false)
		require.ErrorAs(t, err, &forbiddenErr)
	})

	t.Run("author can delete", func(t *testing.T) {
		created, err := usecase.CreateComment(ctx, postId, author, model.CommentCreateRequest{Text: "bye"})
		require.NoError(t, err)
		require.NoError(t, usecase.DeleteComment(ctx, created.Id, author, false))
	})

	t.Run("admin can delete someone else's", func(t *testing.T) {
		created, err := usecase.CreateComment(ctx, postId, author, model.CommentCreateRequest{Text: "bye"})
		require.NoError(t, err)
		require.NoError(t, usecase.DeleteComment(ctx, created.Id, admin, true))
	})
}

// Deleting a parent must not cascade: the replies stay stored but the whole
// subtree disappears from the rendered forest.
func TestDeleteLeavesOrphanedSubtreeOutOfForest(t *testing.T) {
	ctx := context.Background()
	postId := uuid.New()
	author := uuid.New()
	usecase, store := newTestCommentUsecase(postId)

	parent, err := usecase.CreateComment(ctx, postId, author, model.CommentCreateRequest{Text: "parent"})
	require.NoError(t, err)

	parentRef := parent.Id.String()
	reply, err := usecase.CreateComment(ctx, postId, author, model.CommentCreateRequest{Text: "reply", ParentId: &parentRef})
	require.NoError(t, err)

	require.NoError(t, usecase.DeleteComment(ctx, parent.Id, author, false))

	forest, err := usecase.GetCommentForest(ctx, postId, nil, "")
	require.NoError(t, err)
	assert.Empty(t, forest)

	// the reply record itself is still in storage
	_, ok := store.records[reply.Id]
	assert.True(t, ok)
}

func TestUpvoteComment(t *testing.T) {
	ctx := context.Background()
	postId := uuid.New()
	author := uuid.New()
	usecase, _ := newTestCommentUsecase(postId)

	t.Run("missing comment", func(t *testing.T) {
		var notFoundErr *model.NotFoundError
		_, err := usecase.UpvoteComment(ctx, uuid.New())
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("increments without dedup", func(t *testing.T) {
		created, err := usecase.CreateComment(ctx, postId, author, model.CommentCreateRequest{Text: "vote me"})
		require.NoError(t, err)

		for i := 1; i <= 3; i++ {
			detail, err := usecase.UpvoteComment(ctx, created.Id)
			require.NoError(t, err)
			assert.Equal(t, i, detail.UpvoteCount)
		}
	})
}

func TestGetCommentForest(t *testing.T) {
	ctx := context.Background()
	postId := uuid.New()
	author := uuid.New()
	other := uuid.New()
	usecase, _ := newTestCommentUsecase(postId)

	root, err := usecase.CreateComment(ctx, postId, author, model.CommentCreateRequest{Text: "root"})
	require.NoError(t, err)
	rootRef := root.Id.String()
	_, err = usecase.CreateComment(ctx, postId, other, model.CommentCreateRequest{Text: "reply", ParentId: &rootRef})
	require.NoError(t, err)

	t.Run("invalid sort is rejected", func(t *testing.T) {
		var validationErr *model.ValidationError
		_, err := usecase.GetCommentForest(ctx, postId, nil, "trending")
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("annotates and applies viewer permissions", func(t *testing.T) {
		forest, err := usecase.GetCommentForest(ctx, postId, &commenttree.Viewer{Id: author}, "")
		require.NoError(t, err)
		require.Len(t, forest, 1)
		assert.Equal(t, 1, forest[0].ReplyCount)
		assert.True(t, forest[0].CanEdit)
		require.Len(t, forest[0].Children, 1)
		assert.False(t, forest[0].Children[0].CanEdit)
		assert.True(t, forest[0].Children[0].CanUpvote)
	})

	t.Run("anonymous viewer gets no actions", func(t *testing.T) {
		forest, err := usecase.GetCommentForest(ctx, postId, nil, "oldest")
		require.NoError(t, err)
		require.Len(t, forest, 1)
		assert.False(t, forest[0].CanEdit)
		assert.False(t, forest[0].CanDelete)
		assert.False(t, forest[0].CanUpvote)
	})
}
