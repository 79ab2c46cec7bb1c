package main

import (
	"github.com/spf13/cobra"

	apperrors "socialgraph/backend/pkg/errors"
)

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and follows",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.users.CreateUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(user)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <userId>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.users.FindUserByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if user == nil {
				return apperrors.NewUserNotFound(args[0])
			}
			return a.print(user)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "follow <followerId> <followedId>",
		Short: "Make one user follow another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.users.FollowUser(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			return a.print(map[string]string{"follower": args[0], "followed": args[1]})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "followers <userId>",
		Short: "List the followers of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			followers, err := a.users.GetFollowers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(followers)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "following <userId>",
		Short: "List the users a user follows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			following, err := a.users.GetFollowing(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.print(following)
		},
	})

	return cmd
}
