package main

import (
	"github.com/spf13/cobra"

	apperrors "socialgraph/backend/pkg/errors"
)

func newPostCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage posts, likes and recommendations",
	}

	var tags []string
	create := &cobra.Command{
		Use:   "create <authorId> <content>",
		Short: "Create a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := a.posts.CreatePost(cmd.Context(), args[1], args[0], tags)
			if err != nil {
				return err
			}
			return a.print(post)
		},
	}
	create.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag to attach (repeatable or comma separated)")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "get <postId>",
		Short: "Show a post with its author and tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := a.posts.FindPostByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if post == nil {
				return apperrors.NewPostNotFound(args[0])
			}
			return a.print(post)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "like <userId> <postId>",
		Short: "Like a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.posts.LikePost(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return a.print(map[string]string{"user": args[0], "post": args[1]})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "likers <postId>",
		Short: "List the users who liked a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			likers, err := a.posts.GetLikesForPost(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(likers)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recommend <postId> <excludeUserId>",
		Short: "Recommend posts liked by the likers of a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.recs.RecommendFromLikers(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.print(recs)
		},
	})

	return cmd
}
