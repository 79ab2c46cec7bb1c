package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialgraph/backend/internal/graph"
	apperrors "socialgraph/backend/pkg/errors"
)

// memoryGraph is an in-memory stand-in for the three stores
type memoryGraph struct {
	mu      sync.Mutex
	users   map[string]*graph.User
	posts   map[string]*graph.CreatedPost
	likes   map[[2]string]bool
	follows map[[2]string]bool
	schemas int
}

func newMemoryGraph() *memoryGraph {
	return &memoryGraph{
		users:   map[string]*graph.User{},
		posts:   map[string]*graph.CreatedPost{},
		likes:   map[[2]string]bool{},
		follows: map[[2]string]bool{},
	}
}

func (m *memoryGraph) CreateUser(_ context.Context, username string) (*graph.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return nil, apperrors.NewUsernameTaken(username, nil)
		}
	}
	u := &graph.User{UserID: uuid.New().String(), Username: username, CreatedAt: time.Now()}
	m.users[u.UserID] = u
	return u, nil
}

func (m *memoryGraph) FindUserByID(_ context.Context, userID string) (*graph.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.users[userID], nil
}

func (m *memoryGraph) FollowUser(_ context.Context, followerID, followedID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if followerID == followedID {
		return apperrors.NewSelfFollow(followerID)
	}
	m.follows[[2]string{followerID, followedID}] = true
	return nil
}

func (m *memoryGraph) GetFollowers(_ context.Context, userID string) ([]graph.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []graph.UserSummary{}
	for f := range m.follows {
		if f[1] == userID {
			out = append(out, graph.UserSummary{UserID: f[0], Username: m.users[f[0]].Username})
		}
	}
	return out, nil
}

func (m *memoryGraph) GetFollowing(_ context.Context, userID string) ([]graph.UserSummary, error) {
	return []graph.UserSummary{}, nil
}

func (m *memoryGraph) CreatePost(_ context.Context, content, authorID string, tags []string) (*graph.CreatedPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	author, ok := m.users[authorID]
	if !ok {
		return nil, apperrors.NewUserNotFound(authorID)
	}
	p := &graph.CreatedPost{
		PostID:         uuid.New().String(),
		Content:        content,
		AuthorUsername: author.Username,
		Tags:           graph.NormalizeTags(tags),
		CreatedAt:      time.Now(),
	}
	m.posts[p.PostID] = p
	return p, nil
}

func (m *memoryGraph) FindPostByID(_ context.Context, postID string) (*graph.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return nil, nil
	}
	return &graph.Post{PostID: p.PostID, Content: p.Content, Tags: p.Tags}, nil
}

func (m *memoryGraph) LikePost(_ context.Context, userID, postID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[postID]; !ok {
		return apperrors.NewPostNotFound(postID)
	}
	m.likes[[2]string{userID, postID}] = true
	return nil
}

func (m *memoryGraph) GetLikesForPost(_ context.Context, postID string) ([]graph.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []graph.UserSummary{}
	for l := range m.likes {
		if l[1] == postID {
			out = append(out, graph.UserSummary{UserID: l[0], Username: m.users[l[0]].Username})
		}
	}
	return out, nil
}

func (m *memoryGraph) RecommendFromLikers(_ context.Context, postID, excludeUserID string) ([]graph.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := map[string]int64{}
	for l := range m.likes {
		if l[1] != postID || l[0] == excludeUserID {
			continue
		}
		for other := range m.likes {
			if other[0] == l[0] && other[1] != postID {
				counts[other[1]]++
			}
		}
	}
	out := []graph.Recommendation{}
	for id, n := range counts {
		out = append(out, graph.Recommendation{PostID: id, CommonLikersCount: n, Tags: m.posts[id].Tags})
	}
	return out, nil
}

func newTestApp(m *memoryGraph) (*app, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &app{
		users: m,
		posts: m,
		recs:  m,
		schema: func(context.Context) error {
			m.schemas++
			return nil
		},
		out: out,
	}, out
}

func execute(t *testing.T, a *app, args ...string) error {
	t.Helper()
	root := newRootCmd(a, func(context.Context, *app) error {
		return errors.New("connect must not be called")
	})
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestSchemaCommand(t *testing.T) {
	m := newMemoryGraph()
	a, out := newTestApp(m)

	require.NoError(t, execute(t, a, "schema"))
	assert.Equal(t, 1, m.schemas)
	assert.JSONEq(t, `{"status":"ok"}`, out.String())
}

func TestUserCommands(t *testing.T) {
	m := newMemoryGraph()
	a, out := newTestApp(m)

	require.NoError(t, execute(t, a, "user", "create", "alice"))
	var alice graph.User
	require.NoError(t, json.Unmarshal(out.Bytes(), &alice))
	assert.Equal(t, "alice", alice.Username)

	out.Reset()
	require.NoError(t, execute(t, a, "user", "create", "bob"))
	var bob graph.User
	require.NoError(t, json.Unmarshal(out.Bytes(), &bob))

	require.NoError(t, execute(t, a, "user", "follow", bob.UserID, alice.UserID))

	out.Reset()
	require.NoError(t, execute(t, a, "user", "followers", alice.UserID))
	var followers []graph.UserSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &followers))
	assert.Equal(t, []graph.UserSummary{{UserID: bob.UserID, Username: "bob"}}, followers)

	err := execute(t, a, "user", "create", "alice")
	assert.True(t, apperrors.IsConflict(err))

	err = execute(t, a, "user", "get", uuid.New().String())
	assert.True(t, apperrors.IsNotFound(err))

	assert.Error(t, execute(t, a, "user", "create"))
}

func TestPostCommands(t *testing.T) {
	m := newMemoryGraph()
	a, out := newTestApp(m)

	author, err := m.CreateUser(context.Background(), "author")
	require.NoError(t, err)

	require.NoError(t, execute(t, a, "post", "create", author.UserID, "hello", "--tag", "Go,go", "-t", "Neo4j"))
	var post graph.CreatedPost
	require.NoError(t, json.Unmarshal(out.Bytes(), &post))
	assert.Equal(t, []string{"go", "neo4j"}, post.Tags)

	require.NoError(t, execute(t, a, "post", "like", author.UserID, post.PostID))

	out.Reset()
	require.NoError(t, execute(t, a, "post", "likers", post.PostID))
	var likers []graph.UserSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &likers))
	assert.Len(t, likers, 1)

	err = execute(t, a, "post", "get", uuid.New().String())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestSeed(t *testing.T) {
	m := newMemoryGraph()
	a, _ := newTestApp(m)

	result, err := seed(context.Background(), a, "t", 3)
	require.NoError(t, err)
	assert.Len(t, result.Users, len(seedUsernames))
	assert.Len(t, result.Posts, len(seedPosts))
	assert.Len(t, m.likes, len(seedLikes))
	assert.Len(t, m.follows, len(seedUsernames))

	// dave is excluded; bob and carol liked post 0 and also liked posts 1 and 2
	require.NotEmpty(t, result.Recommendations)
	byPost := map[string]int64{}
	for _, r := range result.Recommendations {
		byPost[r.PostID] = r.CommonLikersCount
	}
	assert.Equal(t, int64(2), byPost[result.Posts[1].PostID])
	assert.Equal(t, int64(1), byPost[result.Posts[2].PostID])
	_, hasHiking := byPost[result.Posts[3].PostID]
	assert.False(t, hasHiking)

	_, err = seed(context.Background(), a, "t", 3)
	assert.True(t, apperrors.IsConflict(err))
}
