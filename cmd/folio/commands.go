package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/foliopress/folio/internal/application"
	"github.com/foliopress/folio/internal/domain/entity"
)

func newRegisterCmd(ctx context.Context, a *app) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.SignUp(ctx, email, password, name); err != nil {
				return err
			}
			sess := a.session.Current()
			fmt.Printf("registered %s (role %s)\n", sess.Identity.Email, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newLoginCmd(ctx context.Context, a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.SignIn(ctx, email, password); err != nil {
				return err
			}
			sess := a.session.Current()
			fmt.Printf("signed in as %s (role %s)\n", sess.Identity.Email, sess.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.SignOut(ctx)
			fmt.Println("signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.session.State() != application.StateAuthenticated {
				fmt.Println("not signed in")
				return nil
			}
			sess := a.session.Current()
			fmt.Printf("id:    %s\nemail: %s\nrole:  %s\n", sess.Identity.ID, sess.Identity.Email, sess.Role)
			if sess.Profile != nil {
				fmt.Printf("name:  %s\n", sess.Profile.Name)
			}
			return nil
		},
	}
}

func newProfileCmd(ctx context.Context, a *app) *cobra.Command {
	var name, email, avatar string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.session.UpdateProfile(ctx, entity.ProfilePatch{Name: name, Email: email, AvatarURL: avatar})
			if err != nil {
				return err
			}
			fmt.Printf("profile updated: %s <%s>\n", p.Name, p.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&avatar, "avatar", "", "avatar URL")
	return cmd
}

func newListCmd(ctx context.Context, a *app) *cobra.Command {
	var mine bool
	var status string
	var page, limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := application.ListOptions{Mine: mine, Page: page, Limit: limit}
			if status != "" {
				opts.Status = entity.Status(status)
				if !opts.Status.Valid() {
					return fmt.Errorf("unknown status %q", status)
				}
			}
			pg, err := a.content.List(ctx, opts)
			if err != nil {
				return err
			}
			for _, item := range pg.Items {
				fmt.Printf("%-36s  %-12s  %2d min  %-20s  %s\n",
					item.ID, item.Status, item.ReadTimeMinutes, item.AuthorName, item.Title)
			}
			fmt.Printf("page %d/%d (%d total)", pg.CurrentPage, pg.TotalPages, pg.TotalCount)
			if pg.HasNextPage {
				fmt.Print(", more available")
			}
			fmt.Println()
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only my articles")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|approved|disapproved)")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	return cmd
}

func newGetCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.content.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("id:       %s\ntitle:    %s\n", item.ID, item.Title)
			if item.Subtitle != "" {
				fmt.Printf("subtitle: %s\n", item.Subtitle)
			}
			fmt.Printf("author:   %s\nstatus:   %s\nread:     %d min\n", item.AuthorName, item.Status, item.ReadTimeMinutes)
			if item.HeroImageURL != "" {
				fmt.Printf("hero:     %s\n", item.HeroImageURL)
			}
			fmt.Printf("\n%s\n", item.BodyMarkdown)
			return nil
		},
	}
}

// readHero loads an image file into an upload payload. Content type is
// sniffed later by validation.
func readHero(path string) (*entity.HeroImage, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hero image: %w", err)
	}
	return &entity.HeroImage{Filename: filepath.Base(path), Data: data}, nil
}

func readBody(path, inline string) (string, error) {
	if path == "" {
		return inline, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading body file: %w", err)
	}
	return string(data), nil
}

func newSubmitCmd(ctx context.Context, a *app) *cobra.Command {
	var title, subtitle, body, bodyFile, image string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a new article for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			markdown, err := readBody(bodyFile, body)
			if err != nil {
				return err
			}
			hero, err := readHero(image)
			if err != nil {
				return err
			}
			created, err := a.content.Create(ctx, entity.ArticleDraft{
				Title:        title,
				Subtitle:     subtitle,
				BodyMarkdown: markdown,
			}, hero)
			if err != nil {
				return err
			}
			fmt.Printf("submitted %s (%d min read, status %s)\n", created.ID, created.ReadTimeMinutes, created.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "article title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "article subtitle")
	cmd.Flags().StringVar(&body, "body", "", "markdown body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "markdown file")
	cmd.Flags().StringVar(&image, "image", "", "hero image file")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEditCmd(ctx context.Context, a *app) *cobra.Command {
	var title, subtitle, body, bodyFile, image string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update one of your articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch entity.ArticlePatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("subtitle") {
				patch.Subtitle = &subtitle
			}
			if cmd.Flags().Changed("body") || cmd.Flags().Changed("body-file") {
				markdown, err := readBody(bodyFile, body)
				if err != nil {
					return err
				}
				patch.BodyMarkdown = &markdown
			}
			hero, err := readHero(image)
			if err != nil {
				return err
			}
			updated, err := a.content.Update(ctx, args[0], patch, hero)
			if err != nil {
				return err
			}
			fmt.Printf("updated %s (%d min read)\n", updated.ID, updated.ReadTimeMinutes)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "article title")
	cmd.Flags().StringVar(&subtitle, "subtitle", "", "article subtitle")
	cmd.Flags().StringVar(&body, "body", "", "markdown body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "markdown file")
	cmd.Flags().StringVar(&image, "image", "", "hero image file")
	return cmd
}

func newRemoveCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.content.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

func statusCmd(ctx context.Context, a *app, use, short string, status entity.Status) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.content.SetStatus(ctx, args[0], status); err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", args[0], status)
			return nil
		},
	}
}

func newApproveCmd(ctx context.Context, a *app) *cobra.Command {
	return statusCmd(ctx, a, "approve", "Approve a pending article (admin only)", entity.StatusApproved)
}

func newDisapproveCmd(ctx context.Context, a *app) *cobra.Command {
	return statusCmd(ctx, a, "disapprove", "Disapprove a pending article (admin only)", entity.StatusDisapproved)
}

func newLikeCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Like an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.engagement.AddLike(ctx, args[0])
		},
	}
}

func newUnlikeCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unlike <id>",
		Short: "Remove a like",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.engagement.RemoveLike(ctx, args[0])
		},
	}
}

func newCommentCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Comment on an article",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.engagement.AddComment(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println("comment", c.ID)
			return nil
		},
	}
}

func newUncommentCmd(ctx context.Context, a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "uncomment <id> <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.engagement.RemoveComment(ctx, args[0], args[1])
		},
	}
}
