package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewReconcileCommand creates the reconcile-counters command, which recounts
// the like and comment counters stored on posts.
func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	var postID string

	cmd := &cobra.Command{
		Use:   "reconcile-counters",
		Short: "Recount post like and comment counters",
		Long: `Recount the likeCount and commentCount fields of posts from the likes and
comments collections, repairing drift left by failed counter updates.

With --post only that post is recounted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runReconcile(ctx, rootOpts, postID, cmd)
		},
	}
	cmd.Flags().StringVar(&postID, "post", "", "only reconcile this post ID")

	return cmd
}

func runReconcile(ctx context.Context, opts *RootOptions, postID string, cmd *cobra.Command) error {
	a, err := newApp(ctx, opts, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if postID != "" {
		post, err := a.services.Social.ReconcileCounters(ctx, postID)
		if err != nil {
			return fmt.Errorf("reconcile post %s: %w", postID, err)
		}
		fmt.Fprintf(out, "post %s: likes=%d comments=%d\n", post.ID, post.LikeCount, post.CommentCount)
		return nil
	}

	n, err := a.services.Social.ReconcileAllCounters(ctx)
	if err != nil {
		return fmt.Errorf("reconcile counters: %w", err)
	}
	fmt.Fprintf(out, "reconciled %d posts\n", n)
	return nil
}
