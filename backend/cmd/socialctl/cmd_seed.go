package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"socialgraph/backend/internal/graph"
)

type seedPost struct {
	author  int
	content string
	tags    []string
}

var seedUsernames = []string{"alice", "bob", "carol", "dave"}

var seedPosts = []seedPost{
	{author: 0, content: "Getting started with graph databases", tags: []string{"neo4j", "graphs"}},
	{author: 1, content: "Cypher pattern matching tricks", tags: []string{"neo4j", "cypher"}},
	{author: 2, content: "Why relationships are first class", tags: []string{"graphs"}},
	{author: 3, content: "Weekend hiking photos", tags: []string{"outdoors"}},
}

// likes are (user index, post index) pairs
var seedLikes = [][2]int{
	{1, 0}, {2, 0}, {3, 0},
	{1, 1}, {2, 1},
	{2, 2},
	{3, 3},
}

type seedResult struct {
	Users           []*graph.User          `json:"users"`
	Posts           []*graph.CreatedPost   `json:"posts"`
	Recommendations []graph.Recommendation `json:"recommendations"`
}

func newSeedCmd(a *app) *cobra.Command {
	var prefix string
	var concurrency int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a small demo graph and print a recommendation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := seed(cmd.Context(), a, prefix, concurrency)
			if err != nil {
				return err
			}
			return a.print(result)
		},
	}
	cmd.Flags().StringVar(&prefix, "prefix", "demo", "username prefix so repeated seeds do not collide")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "parallel like requests")
	return cmd
}

func seed(ctx context.Context, a *app, prefix string, concurrency int) (*seedResult, error) {
	result := &seedResult{}

	for _, name := range seedUsernames {
		user, err := a.users.CreateUser(ctx, fmt.Sprintf("%s_%s", prefix, name))
		if err != nil {
			return nil, err
		}
		result.Users = append(result.Users, user)
	}

	// everyone follows alice; alice follows bob
	for _, u := range result.Users[1:] {
		if err := a.users.FollowUser(ctx, u.UserID, result.Users[0].UserID); err != nil {
			return nil, err
		}
	}
	if err := a.users.FollowUser(ctx, result.Users[0].UserID, result.Users[1].UserID); err != nil {
		return nil, err
	}

	for _, p := range seedPosts {
		post, err := a.posts.CreatePost(ctx, p.content, result.Users[p.author].UserID, p.tags)
		if err != nil {
			return nil, err
		}
		result.Posts = append(result.Posts, post)
	}

	if concurrency < 1 {
		concurrency = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)
	for _, like := range seedLikes {
		userID := result.Users[like[0]].UserID
		postID := result.Posts[like[1]].PostID
		eg.Go(func() error {
			return a.posts.LikePost(egCtx, userID, postID)
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	recs, err := a.recs.RecommendFromLikers(ctx, result.Posts[0].PostID, result.Users[3].UserID)
	if err != nil {
		return nil, err
	}
	result.Recommendations = recs
	return result, nil
}
